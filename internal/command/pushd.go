package command

import "os"

// Pushd changes the process working directory to dir and returns a
// function that restores the original directory. Recipe steps that
// must run relative to a source checkout (cmake-configure, make) use
// this instead of threading a working directory through every call.
func Pushd(dir string) (popd func() error, err error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(dir); err != nil {
		return nil, err
	}
	return func() error {
		return os.Chdir(prev)
	}, nil
}

// Getenv returns the value of an environment variable, mirroring
// os.Getenv; provided so recipe interpreters depend on this package
// rather than os directly.
func Getenv(key string) string {
	return os.Getenv(key)
}

// Setenv sets an environment variable for the current process, used to
// export DESTDIR before invoking a package's install step.
func Setenv(key, value string) error {
	return os.Setenv(key, value)
}

// Unsetenv removes an environment variable, used to clear DESTDIR once
// a fakeroot install step completes.
func Unsetenv(key string) error {
	return os.Unsetenv(key)
}
