package vr

import (
	vk "github.com/vulkan-go/vulkan"

	"parallax/src/xr"
)

// VulkanEnableExtension is the one runtime extension this engine
// cannot run without.
const VulkanEnableExtension = "XR_KHR_vulkan_enable"

// Config carries everything the bootstrapper and the extension
// negotiation need. All fields are read-only after startup; there is
// deliberately no package-global state to mutate.
type Config struct {
	AppName    string
	AppVersion uint32

	FormFactor xr.FormFactor
	ViewConfig xr.ViewConfigurationType

	// RequiredExtensions must all be advertised by the runtime or
	// bootstrap fails fatally.
	RequiredExtensions []string

	// ColorFormat and DepthFormat are matched exactly against the
	// session's supported formats; there is no fallback negotiation.
	ColorFormat vk.Format
	DepthFormat vk.Format

	// GraphicsAPIVersion is the Vulkan version the renderer targets.
	// Bootstrap fails when it exceeds the runtime's stated maximum.
	GraphicsAPIVersion xr.Version

	BlendMode xr.EnvironmentBlendMode

	// Debug enables the runtime debug messenger and the Vulkan
	// validation layer.
	Debug bool
}

// DefaultConfig returns a working stereo HMD configuration.
func DefaultConfig() *Config {
	return &Config{
		AppName:            "parallax",
		AppVersion:         1,
		FormFactor:         xr.FormFactorHeadMountedDisplay,
		ViewConfig:         xr.ViewConfigurationPrimaryStereo,
		RequiredExtensions: []string{VulkanEnableExtension},
		ColorFormat:        vk.FormatR8g8b8a8Srgb,
		DepthFormat:        vk.FormatD32Sfloat,
		GraphicsAPIVersion: xr.MakeVersion(1, 1, 0),
		BlendMode:          xr.EnvironmentBlendModeOpaque,
	}
}
