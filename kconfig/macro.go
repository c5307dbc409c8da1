// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"kconfig.sh/log"
)

// evaluateShellCommand runs a `$(shell, CMD...)` substitution the way
// the reference tool's Makefile glue does: the arguments are joined
// back into a single shell command, run through `sh -c`, and its
// trimmed, newline-collapsed stdout becomes the substituted text.
func evaluateShellCommand(ctx context.Context, args string) (string, error) {
	log.G(ctx).Debugf("shell: %v", args)
	cmd := exec.Command("sh", "-c", args)
	var outb, errb bytes.Buffer
	cmd.Stdout = &outb
	cmd.Stderr = &errb

	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(err, errb.String())
	}

	value := strings.TrimSpace(strings.ReplaceAll(outb.String(), "\n", " "))
	log.G(ctx).Debugf("shell %q evaluates to %q", args, value)
	return value, nil
}
