// Package tools implements the editing tools of the editor.
//
// Every tool owns a panel and embeds a ToolState: a clean/dirty machine
// over a tool specific payload. Edits mark the tool dirty; Apply commits a
// dirty tool as one history entry and Cancel discards its edits by reloading
// the current history entry. Either way the tool ends clean and the editor
// returns to navigation unless a hook keeps the panel open.
//
// The Coordinator routes apply and cancel to the tool owning the active
// panel.
package tools
