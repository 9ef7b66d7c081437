package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"
	"github.com/extkit-dev/extkit/internal/api"
	"github.com/extkit-dev/extkit/internal/extension"
)

// JSRuntime runs extensions in an embedded JavaScript engine.
//
// Scripts see a console object and a host object with name, args, version,
// apiBaseURL(), accessToken(), and exit(code).
type JSRuntime struct {
	HostVersion string

	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// exitRequest is the interrupt value host.exit uses to stop the VM.
type exitRequest struct {
	code int
}

// Run compiles and runs the extension's entrypoint. Cancelling ctx interrupts
// the script.
func (j *JSRuntime) Run(ctx context.Context, ext *extension.Extension, provider api.Provider, args []string) error {
	prog, err := goja.Compile(ext.EntryPoint(), string(ext.Source()), false)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", ext.EntryPoint(), err)
	}

	stdout := j.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := j.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	vm := goja.New()
	if err := bindConsole(vm, stdout, stderr); err != nil {
		return fmt.Errorf("binding console: %w", err)
	}
	if err := j.bindHost(ctx, vm, ext, provider, args); err != nil {
		return fmt.Errorf("binding host: %w", err)
	}

	// Arrange to interrupt VM on cancellation.
	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				runErr = fmt.Errorf("panic: %v", r)
			}
		}()
		_, runErr = vm.RunProgram(prog)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		vm.Interrupt(ctx.Err())
		<-done
		return ctx.Err()
	}

	if runErr == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(runErr, &interrupted) {
		if req, ok := interrupted.Value().(exitRequest); ok {
			if req.code == 0 {
				return nil
			}
			return &ExitError{Code: req.code}
		}
	}
	return fmt.Errorf("running extension %s: %w", ext.Name(), runErr)
}

func bindConsole(vm *goja.Runtime, stdout, stderr io.Writer) error {
	console := vm.NewObject()
	for name, w := range map[string]io.Writer{
		"log":   stdout,
		"info":  stdout,
		"warn":  stderr,
		"error": stderr,
	} {
		if err := console.Set(name, printer(w)); err != nil {
			return err
		}
	}
	return vm.Set("console", console)
}

func printer(w io.Writer) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
		return goja.Undefined()
	}
}

func (j *JSRuntime) bindHost(ctx context.Context, vm *goja.Runtime, ext *extension.Extension, provider api.Provider, args []string) error {
	host := vm.NewObject()

	jsArgs := make([]interface{}, len(args))
	for i, a := range args {
		jsArgs[i] = a
	}

	client := func() *api.Client {
		c, err := provider(ctx)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return c
	}

	bindings := map[string]interface{}{
		"name":        ext.Name(),
		"args":        vm.NewArray(jsArgs...),
		"version":     j.HostVersion,
		"apiBaseURL":  func() string { return client().BaseURL() },
		"accessToken": func() string { return client().AccessToken() },
		"exit": func(code int) {
			vm.Interrupt(exitRequest{code: code})
		},
	}
	for name, value := range bindings {
		if err := host.Set(name, value); err != nil {
			return err
		}
	}
	return vm.Set("host", host)
}
