package script

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"

	"github.com/go-mesh/meshdev/lib/device"
	"github.com/go-mesh/meshdev/lib/errors"
)

// ModuleName is the identifier scripts pass to require().
const ModuleName = "mesh"

// Register installs the mesh native module for the given device. The
// device's scheduler must deliver callbacks on the runtime's loop
// goroutine (use NewLoopScheduler); otherwise a registered JavaScript
// handler would touch the VM from the wrong goroutine.
func Register(registry *require.Registry, d *device.Device) {
	registry.RegisterNativeModule(ModuleName, ModuleLoader(d))
}

// ModuleLoader returns the CommonJS loader for the mesh module. The
// exported surface:
//
//	active()            -> bool         current lifecycle state
//	active(v)           -> bool         activate/deactivate, returns new state
//	config(key)         -> value        read one parameter by name
//	config({k: v, ...})                 set parameters, all-or-nothing
//	registerEventHandler(fn | null)     install or clear the event callback
func ModuleLoader(d *device.Device) func(*goja.Runtime, *goja.Object) {
	return func(vm *goja.Runtime, module *goja.Object) {
		exports := module.Get("exports").(*goja.Object)

		_ = exports.Set("active", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(d.Active())
			}
			on, err := d.SetActive(call.Argument(0).ToBoolean())
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return vm.ToValue(on)
		})

		_ = exports.Set("config", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("config expects a parameter name or an object"))
			}
			arg := call.Argument(0)

			if s, ok := arg.Export().(string); ok {
				v, err := d.Get(s)
				if err != nil {
					panic(vm.NewGoError(err))
				}
				return vm.ToValue(v)
			}

			obj, ok := arg.(*goja.Object)
			if !ok {
				panic(vm.NewTypeError("config param must be a string"))
			}
			opts, err := optionsFromObject(vm, obj)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			if err := d.Set(opts); err != nil {
				panic(vm.NewGoError(err))
			}
			return goja.Undefined()
		})

		_ = exports.Set("registerEventHandler", func(call goja.FunctionCall) goja.Value {
			arg := call.Argument(0)
			isNone := goja.IsNull(arg) || goja.IsUndefined(arg)
			fn, isCallable := goja.AssertFunction(arg)
			if err := device.CheckHandlerValue(isNone, isCallable); err != nil {
				panic(vm.NewGoError(err))
			}
			if isNone {
				d.RegisterEventHandler(nil)
				return goja.Undefined()
			}
			// The handler runs on the loop goroutine, so the captured vm
			// and callable are safe to use here.
			d.RegisterEventHandler(func(ev device.Event) {
				if _, err := fn(goja.Undefined(), vm.ToValue(ev.Value())); err != nil {
					log.WithError(err).Warn("mesh event handler raised")
				}
			})
			return goja.Undefined()
		})
	}
}

// optionsFromObject translates a JS options object into a device Set
// call, so a script can update any subset of parameters at once.
func optionsFromObject(vm *goja.Runtime, obj *goja.Object) (device.SetOptions, error) {
	var opts device.SetOptions
	for _, key := range obj.Keys() {
		val := obj.Get(key)
		switch key {
		case "ssid":
			s := val.String()
			opts.SSID = &s
		case "password":
			s := val.String()
			opts.Password = &s
		case "ap_password":
			s := val.String()
			opts.APPassword = &s
		case "channel":
			var ch int
			if err := vm.ExportTo(val, &ch); err != nil {
				panic(vm.NewTypeError("channel must be an integer"))
			}
			opts.Channel = &ch
		case "power_save":
			b := val.ToBoolean()
			opts.PowerSave = &b
		default:
			return device.SetOptions{}, errors.InvalidInput("unknown config param")
		}
	}
	return opts, nil
}
