package display

import (
	"fmt"
	"os"

	"github.com/NGenetzky/espa-burned-area/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` ____                                 _     _
| __ )  _   _  _ __  _ __    ___   __| |   / \    _ __  ___   __ _
|  _ \ | | | || '__|| '_ \  / _ \ / _`+"`"+` |  / _ \  | '__|/ _ \ / _`+"`"+` |
| |_) || |_| || |   | | | ||  __/| (_| | / ___ \ | |  |  __/| (_| |
|____/  \__,_||_|   |_| |_| \___| \__,_|/_/   \_\|_|   \___| \__,_|
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
