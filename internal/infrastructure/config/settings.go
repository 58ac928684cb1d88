package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/tools"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// DefaultSettings returns the built-in editor settings
func DefaultSettings() types.Settings {
	filters := make([]string, 0, 18)
	for _, def := range tools.BuiltinFilters() {
		filters = append(filters, def.Name)
	}

	return types.Settings{
		ColorPresets: []string{
			"rgb(0,0,0)",
			"rgb(255, 255, 255)",
			"rgb(242, 38, 19)",
			"rgb(249, 105, 14)",
			"rgb(253, 227, 167)",
			"rgb(4, 147, 114)",
			"rgb(30, 139, 195)",
			"rgb(142, 68, 173)",
		},
		ObjectDefaults: types.Properties{
			ScaleX:      1,
			ScaleY:      1,
			Fill:        "rgb(30, 139, 195)",
			Opacity:     1,
			StrokeWidth: 0.1,
			Stroke:      "#000",
			Shadow:      &types.Shadow{Color: "#000", Blur: 3, OffsetX: -1, OffsetY: 0},
			TextAlign:   "initial",
			FontStyle:   "normal",
			FontFamily:  "Times New Roman",
			FontWeight:  400,
		},
		Tools: types.ToolSettings{
			Filter: types.FilterSettings{Items: filters},
			Crop: types.CropSettings{
				DefaultRatio: "16:9",
				Items:        []string{"3:2", "5:3", "4:3", "5:4", "6:4", "7:5", "10:8", "16:9"},
			},
			Text: types.TextSettings{
				DefaultText:     tools.DefaultText,
				DefaultCategory: "handwriting",
			},
			Draw: types.DrawSettings{
				BrushSizes: []float64{1, 2, 5, 10, 15, 20, 25, 35},
				BrushTypes: []string{"PencilBrush", "SprayBrush", "CircleBrush"},
			},
			Shapes: types.ShapeSettings{Items: tools.BuiltinShapes()},
			Stickers: types.StickerSettings{Items: []types.StickerCategory{
				{Name: "emoticons", Items: 42, Type: "svg"},
				{Name: "doodles", Items: 27, Type: "svg"},
				{Name: "clouds", Items: 26, Type: "png"},
			}},
			Frame: types.FrameSettings{Items: tools.BuiltinFrames()},
			Import: types.ImportSettings{
				ValidExtensions: []string{"png", "jpg", "jpeg", "svg", "json", "gif"},
			},
			Export: types.ExportSettings{
				DefaultFormat:  "png",
				DefaultQuality: 0.8,
				DefaultName:    "image",
			},
		},
	}
}

// LoadSettings overlays the settings file at path onto the defaults. The
// format follows the extension: .yaml/.yml, .toml or .json. Keys absent
// from the file keep their default; lists present in the file replace the
// default list.
func LoadSettings(path string) (types.Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := MergeSettings(&settings, raw, filepath.Ext(path)); err != nil {
		return settings, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return settings, nil
}

// MergeSettings overlays raw, encoded as format, onto settings
func MergeSettings(settings *types.Settings, raw []byte, format string) error {
	var tree map[string]any
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return err
		}
	case "toml":
		if err := toml.Unmarshal(raw, &tree); err != nil {
			return err
		}
	case "json":
		if err := sonic.Unmarshal(raw, &tree); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported settings format %q", format)
	}
	if len(tree) == 0 {
		return nil
	}

	// the decoded tree is re-encoded so every format shares the json tags
	normalized, err := sonic.Marshal(tree)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(normalized, settings)
}
