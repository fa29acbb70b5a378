package render

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"
)

// DynamicRenderingExtension is always requested on the logical device
// alongside whatever the runtime negotiation produced.
const DynamicRenderingExtension = "VK_KHR_dynamic_rendering"

// Device holds the logical device and its graphics queue. The
// physical device is not chosen here: the XR runtime dictates which
// one must back the session.
type Device struct {
	GPU        vk.PhysicalDevice
	Device     vk.Device
	Queue      vk.Queue
	QueueIndex uint32
}

// FindQueue selects the first queue family on gpu advertising the
// given capability and remembers both for MakeDevice.
func (dv *Device) FindQueue(gpu vk.PhysicalDevice, flags vk.QueueFlagBits) error {
	var queueCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &queueCount, nil)
	queueProperties := make([]vk.QueueFamilyProperties, queueCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &queueCount, queueProperties)
	if queueCount == 0 {
		return errors.New("vulkan error: no queue families found on GPU")
	}

	required := vk.QueueFlags(flags)
	for i := uint32(0); i < queueCount; i++ {
		queueProperties[i].Deref()
		if queueProperties[i].QueueFlags&required != 0 {
			dv.GPU = gpu
			dv.QueueIndex = i
			return nil
		}
	}
	return errors.New("vulkan error: no queue family with requested capabilities")
}

// MakeDevice creates the logical device and its single queue on the
// family FindQueue selected, enabling the given extension list.
func (dv *Device) MakeDevice(extensions []string) error {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	exts := safeStrings(extensions)
	var device vk.Device
	ret := vk.CreateDevice(dv.GPU, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: exts,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}, nil, &device)
	if IsError(ret) {
		return NewError(ret)
	}
	dv.Device = device

	var queue vk.Queue
	vk.GetDeviceQueue(dv.Device, dv.QueueIndex, 0, &queue)
	dv.Queue = queue
	return nil
}

func (dv *Device) Destroy() {
	if dv.Device == nil {
		return
	}
	vk.DeviceWaitIdle(dv.Device)
	vk.DestroyDevice(dv.Device, nil)
	dv.Device = nil
}
