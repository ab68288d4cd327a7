package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NGenetzky/espa-burned-area/internal/raster"
)

func TestPadGrid(t *testing.T) {
	src := raster.New(2, 1, -9999)
	src.Data = []int16{10, 20}

	g := padGrid(src, 3, 2, -9999)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, []int16{10, 20, -9999, -9999, -9999, -9999}, g.Data)
}

func TestPadGridSameSize(t *testing.T) {
	src := raster.New(2, 2, -9999)
	src.Data = []int16{1, 2, 3, 4}

	g := padGrid(src, 2, 2, -9999)
	assert.Same(t, src, g, "matching dimensions should pass through")
}

func TestMaskFromQA(t *testing.T) {
	qa := raster.New(7, 1, -9999)
	qa.Data = []int16{qaClear, qaWater, qaShadow, qaSnow, qaCloud, qaFill, -9999}

	m := maskFromQA(qa, -9999)
	assert.Equal(t, []int16{1, 1, 0, 0, 0, -9999, -9999}, m.Data)
}

func TestMaskFromQAUnknownCodeIsObscured(t *testing.T) {
	qa := raster.New(1, 1, -9999)
	qa.Data = []int16{9}

	m := maskFromQA(qa, -9999)
	assert.Equal(t, []int16{0}, m.Data)
}

func TestApplyMask(t *testing.T) {
	g := raster.New(4, 1, -9999)
	g.Data = []int16{100, 200, 300, 400}
	mask := raster.New(4, 1, -9999)
	mask.Data = []int16{1, 0, -9999, 1}

	applyMask(g, mask)
	assert.Equal(t, []int16{100, -9999, -9999, 400}, g.Data)
}
