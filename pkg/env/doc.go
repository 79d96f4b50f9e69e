// pkg/env/doc.go
package env

/*
Package env describes Python virtual environments on disk.

A Descriptor is a built environment: an absolute root, the interpreter
version recorded in pyvenv.cfg, and the package directory derived from
both. A Deferred is a placeholder for an environment that has not been
built yet; only its parent directory is known.

Basic Usage:

    d, err := env.Discover("/tmp/venv_abc123")
    if err != nil {
        return err // wraps env.ErrInvalidEnvironment
    }
    fmt.Println(d.PackageDir()) // /tmp/venv_abc123/lib/python3.12/site-packages

Layouts:

POSIX environments keep executables in bin/ and packages in
lib/pythonX.Y/site-packages. Windows environments use Scripts/ and
Lib/site-packages with .exe suffixes. GetLayout knows both.

Named environments:

Manager keeps long-lived environments under ~/.venvod/envs, each with
an env.json recording how it was built.
*/
