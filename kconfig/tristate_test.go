// SPDX-License-Identifier: Apache-2.0
// Copyright 2020 syzkaller project authors. All rights reserved.
// Copyright 2022 Unikraft GmbH. All rights reserved.

package kconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTristateString(t *testing.T) {
	assert.Equal(t, "n", No.String())
	assert.Equal(t, "m", Mod.String())
	assert.Equal(t, "y", Yes.String())
}

func TestTristateFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    Tristate
		wantOk  bool
	}{
		{"n", No, true},
		{"m", Mod, true},
		{"y", Yes, true},
		{"maybe", No, false},
		{"", No, false},
	}
	for _, tt := range tests {
		got, ok := TristateFromString(tt.in)
		assert.Equal(t, tt.wantOk, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTristateNot(t *testing.T) {
	assert.Equal(t, Yes, No.Not())
	assert.Equal(t, Mod, Mod.Not())
	assert.Equal(t, No, Yes.Not())
}

func TestTristateAndOr(t *testing.T) {
	tests := []struct {
		a, b    Tristate
		wantAnd Tristate
		wantOr  Tristate
	}{
		{No, No, No, No},
		{No, Mod, No, Mod},
		{No, Yes, No, Yes},
		{Mod, Mod, Mod, Mod},
		{Mod, Yes, Mod, Yes},
		{Yes, Yes, Yes, Yes},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantAnd, tt.a.And(tt.b))
		assert.Equal(t, tt.wantAnd, tt.b.And(tt.a))
		assert.Equal(t, tt.wantOr, tt.a.Or(tt.b))
		assert.Equal(t, tt.wantOr, tt.b.Or(tt.a))
	}
}

func TestTristateClamp(t *testing.T) {
	assert.Equal(t, Mod, Yes.Clamp(Mod))
	assert.Equal(t, Yes, Yes.Clamp(Yes))
	assert.Equal(t, No, No.Clamp(Yes))
	assert.Equal(t, No, Mod.Clamp(No))
}
