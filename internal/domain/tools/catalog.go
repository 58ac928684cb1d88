package tools

import "github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"

// FilterTypeConvolute is the filter type of matrix based filters
const FilterTypeConvolute = "convolute"

// BuiltinFilters returns the filters the filter tool knows how to build
func BuiltinFilters() []types.FilterDef {
	return []types.FilterDef{
		{Name: "grayscale"},
		{Name: "blackWhite"},
		{Name: "sharpen", Uses: FilterTypeConvolute, Matrix: []float64{0, -1, 0, -1, 5, -1, 0, -1, 0}},
		{Name: "invert"},
		{Name: "vintage"},
		{Name: "polaroid"},
		{Name: "kodachrome"},
		{Name: "technicolor"},
		{Name: "brownie"},
		{Name: "sepia"},
		{Name: "removeColor", Options: map[string]types.FilterOption{
			"distance": {Type: "slider", Min: 0, Max: 1, Step: 0.01, Current: 0.1},
			"color":    {Type: "colorPicker", Current: "#fff"},
		}},
		{Name: "brightness", Options: map[string]types.FilterOption{
			"brightness": {Type: "slider", Min: -1, Max: 1, Step: 0.1, Current: 0.1},
		}},
		{Name: "gamma", Options: map[string]types.FilterOption{
			"red":   {Type: "slider", Min: 0.01, Max: 2.2, Step: 0.01, Current: 1},
			"green": {Type: "slider", Min: 0.01, Max: 2.2, Step: 0.01, Current: 1},
			"blue":  {Type: "slider", Min: 0.01, Max: 2.2, Step: 0.01, Current: 1},
		}},
		{Name: "noise", Options: map[string]types.FilterOption{
			"noise": {Type: "slider", Min: 0, Max: 600, Step: 1, Current: 40},
		}},
		{Name: "pixelate", Options: map[string]types.FilterOption{
			"blocksize": {Type: "slider", Min: 1, Max: 40, Step: 1, Current: 6},
		}},
		{Name: "blur", Options: map[string]types.FilterOption{
			"blur": {Type: "slider", Min: 0, Max: 1, Step: 0.01, Current: 0.1},
		}},
		{Name: "emboss", Uses: FilterTypeConvolute, Matrix: []float64{1, 1, 1, 1, 0.7, -1, -1, -1, -1}},
		{Name: "blendColor", Options: map[string]types.FilterOption{
			"mode":  {Type: "select", Current: "add"},
			"color": {Type: "colorPicker", Current: "#000"},
			"alpha": {Type: "slider", Min: 0.1, Max: 1, Step: 0.1, Current: 0.5},
		}},
	}
}

// BuiltinShapes returns the basic shapes of the shapes tool
func BuiltinShapes() []types.ShapeDef {
	return []types.ShapeDef{
		{Name: "rectangle", Type: types.TypeRect},
		{Name: "circle", Type: types.TypeCircle},
		{Name: "ellipse", Type: types.TypeEllipse},
		{Name: "triangle", Type: types.TypeTriangle},
		{Name: "star", Type: types.TypePolygon, Points: []float64{
			50, 0, 61, 35, 98, 35, 68, 57, 79, 91, 50, 70, 21, 91, 32, 57, 2, 35, 39, 35,
		}},
		{Name: "arrow", Type: types.TypePath, Path: "M 0 35 L 60 35 L 60 10 L 100 50 L 60 90 L 60 65 L 0 65 Z"},
	}
}

// BuiltinFrames returns the frames of the frame tool
func BuiltinFrames() []types.Frame {
	stretch := func(name, display string, def float64) types.Frame {
		return types.Frame{Name: name, DisplayName: display, Mode: types.FrameModeStretch,
			Size: types.FrameSize{Min: 1, Max: 35, Default: def}}
	}
	repeat := func(name, display string) types.Frame {
		return types.Frame{Name: name, DisplayName: display, Mode: types.FrameModeRepeat,
			Size: types.FrameSize{Min: 10, Max: 70, Default: 55}}
	}
	return []types.Frame{
		{Name: "basic", DisplayName: "basic", Mode: types.FrameModeBasic,
			Size: types.FrameSize{Min: 1, Max: 35, Default: 10}},
		stretch("pine", "pine", 15),
		stretch("oak", "oak", 15),
		stretch("rainbow", "rainbow", 15),
		stretch("grunge1", "grunge #1", 15),
		stretch("grunge2", "grunge #2", 20),
		stretch("ebony", "ebony", 15),
		repeat("art1", "Art #1"),
		repeat("art2", "Art #2"),
	}
}
