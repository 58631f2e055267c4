// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

func TestParseCodeBlocks(t *testing.T) {
	input := "Here is an example:\n```go\nfunc main() {}\n```\nDone."
	out := ParseCodeBlocks(input, 80)

	if strings.Contains(out, "```") {
		t.Error("fences should be consumed")
	}
	if !strings.Contains(out, "Here is an example:") {
		t.Error("surrounding text should survive")
	}
	if !strings.Contains(out, "Done.") {
		t.Error("trailing text should survive")
	}
}

func TestParseCodeBlocksUnclosedFence(t *testing.T) {
	input := "```python\nprint('hi')"
	out := ParseCodeBlocks(input, 80)

	if !strings.Contains(out, "print") {
		t.Error("unclosed code block should still render its content")
	}
}

func TestParseInlineCode(t *testing.T) {
	out := ParseInlineCode("run `riley sessions` to list them")
	if strings.Contains(out, "`") {
		t.Errorf("backticks should be consumed, got %q", out)
	}
	if !strings.Contains(out, "riley sessions") {
		t.Error("inline code content should survive")
	}
}

func TestParseInlineCodeUnclosed(t *testing.T) {
	out := ParseInlineCode("a stray `backtick")
	if !strings.Contains(out, "`backtick") {
		t.Errorf("unclosed backtick should stay literal, got %q", out)
	}
}

func TestCodeBlockRenderMinWidth(t *testing.T) {
	cb := NewCodeBlock("go", "x := 1")
	cb.SetMaxWidth(10)
	if cb.Render() == "" {
		t.Error("code block should render even at tiny widths")
	}
}
