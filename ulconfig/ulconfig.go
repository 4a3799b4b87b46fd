// Package ulconfig loads renderer, view and app options from the
// environment or a file and applies them to the native configuration
// objects.
//
// Environment variables use the UL2 prefix and the section name, for
// example UL2_RENDERER_CACHE_PATH or UL2_VIEW_USER_AGENT. Files may be
// TOML, YAML or JSON; keys missing from a file keep their defaults.
package ulconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of every environment variable Load reads.
const EnvPrefix = "UL2"

// Options is the complete configuration of an application.
type Options struct {
	Renderer RendererOptions `toml:"renderer" yaml:"renderer" json:"renderer"`
	View     ViewOptions     `toml:"view" yaml:"view" json:"view"`
	App      AppOptions      `toml:"app" yaml:"app" json:"app"`
}

// RendererOptions maps to ul.Config.
type RendererOptions struct {
	CachePath           string  `envconfig:"CACHE_PATH" toml:"cache_path" yaml:"cache_path" json:"cache_path"`
	ResourcePathPrefix  string  `envconfig:"RESOURCE_PATH_PREFIX" toml:"resource_path_prefix" yaml:"resource_path_prefix" json:"resource_path_prefix"`
	FaceWinding         string  `envconfig:"FACE_WINDING" toml:"face_winding" yaml:"face_winding" json:"face_winding"`
	FontHinting         string  `envconfig:"FONT_HINTING" toml:"font_hinting" yaml:"font_hinting" json:"font_hinting"`
	FontGamma           float64 `envconfig:"FONT_GAMMA" toml:"font_gamma" yaml:"font_gamma" json:"font_gamma"`
	UserStylesheet      string  `envconfig:"USER_STYLESHEET" toml:"user_stylesheet" yaml:"user_stylesheet" json:"user_stylesheet"`
	ForceRepaint        bool    `envconfig:"FORCE_REPAINT" toml:"force_repaint" yaml:"force_repaint" json:"force_repaint"`
	AnimationTimerDelay float64 `envconfig:"ANIMATION_TIMER_DELAY" toml:"animation_timer_delay" yaml:"animation_timer_delay" json:"animation_timer_delay"`
	ScrollTimerDelay    float64 `envconfig:"SCROLL_TIMER_DELAY" toml:"scroll_timer_delay" yaml:"scroll_timer_delay" json:"scroll_timer_delay"`
	RecycleDelay        float64 `envconfig:"RECYCLE_DELAY" toml:"recycle_delay" yaml:"recycle_delay" json:"recycle_delay"`
	MemoryCacheSize     uint32  `envconfig:"MEMORY_CACHE_SIZE" toml:"memory_cache_size" yaml:"memory_cache_size" json:"memory_cache_size"`
	PageCacheSize       uint32  `envconfig:"PAGE_CACHE_SIZE" toml:"page_cache_size" yaml:"page_cache_size" json:"page_cache_size"`
	OverrideRAMSize     uint32  `envconfig:"OVERRIDE_RAM_SIZE" toml:"override_ram_size" yaml:"override_ram_size" json:"override_ram_size"`
	MinLargeHeapSize    uint32  `envconfig:"MIN_LARGE_HEAP_SIZE" toml:"min_large_heap_size" yaml:"min_large_heap_size" json:"min_large_heap_size"`
	MinSmallHeapSize    uint32  `envconfig:"MIN_SMALL_HEAP_SIZE" toml:"min_small_heap_size" yaml:"min_small_heap_size" json:"min_small_heap_size"`
	NumRendererThreads  uint32  `envconfig:"NUM_RENDERER_THREADS" toml:"num_renderer_threads" yaml:"num_renderer_threads" json:"num_renderer_threads"`
	MaxUpdateTime       float64 `envconfig:"MAX_UPDATE_TIME" toml:"max_update_time" yaml:"max_update_time" json:"max_update_time"`
	BitmapAlignment     uint32  `envconfig:"BITMAP_ALIGNMENT" toml:"bitmap_alignment" yaml:"bitmap_alignment" json:"bitmap_alignment"`
}

// ViewOptions maps to ul.ViewConfig.
type ViewOptions struct {
	DisplayID           uint32  `envconfig:"DISPLAY_ID" toml:"display_id" yaml:"display_id" json:"display_id"`
	IsAccelerated       bool    `envconfig:"ACCELERATED" toml:"accelerated" yaml:"accelerated" json:"accelerated"`
	IsTransparent       bool    `envconfig:"TRANSPARENT" toml:"transparent" yaml:"transparent" json:"transparent"`
	InitialDeviceScale  float64 `envconfig:"INITIAL_DEVICE_SCALE" toml:"initial_device_scale" yaml:"initial_device_scale" json:"initial_device_scale"`
	InitialFocus        bool    `envconfig:"INITIAL_FOCUS" toml:"initial_focus" yaml:"initial_focus" json:"initial_focus"`
	EnableImages        bool    `envconfig:"ENABLE_IMAGES" toml:"enable_images" yaml:"enable_images" json:"enable_images"`
	EnableJavaScript    bool    `envconfig:"ENABLE_JAVASCRIPT" toml:"enable_javascript" yaml:"enable_javascript" json:"enable_javascript"`
	FontFamilyStandard  string  `envconfig:"FONT_FAMILY_STANDARD" toml:"font_family_standard" yaml:"font_family_standard" json:"font_family_standard"`
	FontFamilyFixed     string  `envconfig:"FONT_FAMILY_FIXED" toml:"font_family_fixed" yaml:"font_family_fixed" json:"font_family_fixed"`
	FontFamilySerif     string  `envconfig:"FONT_FAMILY_SERIF" toml:"font_family_serif" yaml:"font_family_serif" json:"font_family_serif"`
	FontFamilySansSerif string  `envconfig:"FONT_FAMILY_SANS_SERIF" toml:"font_family_sans_serif" yaml:"font_family_sans_serif" json:"font_family_sans_serif"`
	UserAgent           string  `envconfig:"USER_AGENT" toml:"user_agent" yaml:"user_agent" json:"user_agent"`
}

// AppOptions maps to appcore.Settings.
type AppOptions struct {
	DeveloperName             string `envconfig:"DEVELOPER_NAME" toml:"developer_name" yaml:"developer_name" json:"developer_name"`
	AppName                   string `envconfig:"APP_NAME" toml:"app_name" yaml:"app_name" json:"app_name"`
	FileSystemPath            string `envconfig:"FILE_SYSTEM_PATH" toml:"file_system_path" yaml:"file_system_path" json:"file_system_path"`
	LoadShadersFromFileSystem bool   `envconfig:"LOAD_SHADERS_FROM_FILE_SYSTEM" toml:"load_shaders_from_file_system" yaml:"load_shaders_from_file_system" json:"load_shaders_from_file_system"`
	ForceCPURenderer          bool   `envconfig:"FORCE_CPU_RENDERER" toml:"force_cpu_renderer" yaml:"force_cpu_renderer" json:"force_cpu_renderer"`
}

// DefaultUserAgent is the user agent the engine reports by default.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/608.3.10 (KHTML, like Gecko) Ultralight/1.3.0 Version/13.0.3 Safari/608.3.10"

// Default returns the engine's own defaults.
func Default() Options {
	return Options{
		Renderer: RendererOptions{
			ResourcePathPrefix:  "resources/",
			FaceWinding:         "counter_clockwise",
			FontHinting:         "normal",
			FontGamma:           1.8,
			AnimationTimerDelay: 1.0 / 60.0,
			ScrollTimerDelay:    1.0 / 60.0,
			RecycleDelay:        4.0,
			MemoryCacheSize:     64 * 1024 * 1024,
			MinLargeHeapSize:    32 * 1024 * 1024,
			MinSmallHeapSize:    1024 * 1024,
			MaxUpdateTime:       1.0 / 200.0,
			BitmapAlignment:     16,
		},
		View: ViewOptions{
			InitialDeviceScale:  1.0,
			InitialFocus:        true,
			EnableImages:        true,
			EnableJavaScript:    true,
			FontFamilyStandard:  "Times New Roman",
			FontFamilyFixed:     "Courier New",
			FontFamilySerif:     "Times New Roman",
			FontFamilySansSerif: "Arial",
			UserAgent:           DefaultUserAgent,
		},
		App: AppOptions{
			DeveloperName:  "MyCompany",
			AppName:        "MyApp",
			FileSystemPath: "./assets/",
		},
	}
}

// Load returns the defaults overridden by UL2_* environment variables.
func Load() (Options, error) {
	o := Default()
	if err := o.OverlayEnv(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// OverlayEnv overrides the options that have an environment variable set.
func (o *Options) OverlayEnv() error {
	if err := envconfig.Process(EnvPrefix, o); err != nil {
		return fmt.Errorf("ulconfig: environment: %w", err)
	}
	return o.Validate()
}

// LoadFile returns the defaults overridden by the file at path. The format
// follows the extension: .toml, .yaml, .yml or .json. Unknown keys are
// errors.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("ulconfig: %w", err)
	}
	o := Default()
	if err := o.decode(strings.ToLower(filepath.Ext(path)), data); err != nil {
		return Options{}, fmt.Errorf("ulconfig: %s: %w", filepath.Base(path), err)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

func (o *Options) decode(ext string, data []byte) error {
	switch ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(o)
	case ".yaml", ".yml":
		return yaml.UnmarshalWithOptions(data, o, yaml.Strict())
	case ".json":
		return strictJSON.Unmarshal(data, o)
	}
	return fmt.Errorf("unsupported format %q", ext)
}
