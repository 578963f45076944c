package tallydir

import (
	"errors"
	"fmt"
	"os"
)

// Bootstrap creates the .tally/ root and scripts/ directory if they are
// missing. It is safe to call multiple times.
func Bootstrap(d Dir) error {
	if err := os.MkdirAll(d.ScriptsDir(), 0o750); err != nil {
		return fmt.Errorf("tallydir: create scripts dir: %w", err)
	}

	return nil
}

// BootstrapWithConfig runs Bootstrap and writes configYAML to the config
// path. An existing config file is left untouched.
func BootstrapWithConfig(d Dir, configYAML []byte) error {
	if err := Bootstrap(d); err != nil {
		return err
	}

	f, err := os.OpenFile(d.ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tallydir: create config: %w", err)
	}

	if _, err := f.Write(configYAML); err != nil {
		_ = f.Close()
		return fmt.Errorf("tallydir: write config: %w", err)
	}

	return f.Close()
}
