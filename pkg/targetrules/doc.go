// Package targetrules resolves build-target rules into immutable descriptors for an external build
// orchestrator.
// Rules are declared in Starlark (*.target.star) or HCL (*.target.hcl) files below the project's
// Source directory, much like the engine's *.Target.cs files, and are turned into a TargetDescriptor
// once per build invocation.
package targetrules
