//go:build windows

package eslint

import "os/exec"

// killGroupOnCancel leaves the default kill in place; WaitDelay still bounds Wait
func killGroupOnCancel(cmd *exec.Cmd) {}
