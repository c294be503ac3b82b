package graphic

import (
	"os"
	"strings"
)

// normalizeTerminal works around terminal settings termbox cannot handle.
// The returned function puts the environment back.
func normalizeTerminal() (func(), error) {
	prevTERMINFO, hadTERMINFO := os.LookupEnv("TERMINFO")

	if strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		// termbox fails on some tmux TERM values when TERMINFO is set
		if err := os.Unsetenv("TERMINFO"); err != nil {
			return nil, err
		}
	}

	restore := func() {
		if !hadTERMINFO {
			os.Unsetenv("TERMINFO")
			return
		}
		os.Setenv("TERMINFO", prevTERMINFO)
	}

	return restore, nil
}
