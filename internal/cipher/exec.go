// Package cipher provides Decrypter implementations backed by external
// tools. The cipher primitive itself is an external capability; this
// package only adapts process boundaries to the Decrypter interface.
package cipher

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// KeyEnv is the environment variable the command receives the key
// material in. The key never appears on the command line, so it stays out
// of the process table.
const KeyEnv = "SATCHEL_CIPHER_KEY"

// Command is a Decrypter that shells out to a user-supplied helper. The
// helper receives the ciphertext unit on stdin and the key in KeyEnv, and
// must write the recovered plaintext to stdout. Any non-zero exit is a
// decryption failure.
type Command struct {
	path string
	args []string
}

// NewCommand builds a Command decrypter from a helper binary and fixed
// leading arguments.
func NewCommand(path string, args ...string) *Command {
	return &Command{path: path, args: args}
}

// Decrypt implements types.Decrypter.
func (c *Command) Decrypt(ciphertext string, key string) ([]byte, error) {
	cmd := exec.Command(c.path, c.args...)
	cmd.Stdin = strings.NewReader(ciphertext)
	cmd.Env = append(cmd.Environ(), KeyEnv+"="+key)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: %s", types.ErrDecryption, c.path, msg)
	}
	return stdout.Bytes(), nil
}
