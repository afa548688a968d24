// Package script runs Lua scripts against a history coordinator.
//
// Scripts define commands as pairs of Lua functions and drive either a flat
// registry or a tree through the global undo table:
//
//	local doc = { text = "" }
//	local id = undo.context("doc")
//
//	local function append(s)
//	  return undo.command{
//	    name = "append " .. s,
//	    execute = function() doc.text = doc.text .. s end,
//	    undo = function() doc.text = doc.text:sub(1, #doc.text - #s) end,
//	  }
//	end
//
//	undo.register(id, append("hello"))
//	undo.undo()
//
// In tree mode targets are nodes, given either as node values returned by
// undo.root and undo.node or by label.
//
// The Lua state is sandboxed: only the base, table, string and math libraries
// are available, and file loading functions are removed. A Lua error raised
// inside a command's execute or undo function aborts the running script.
package script
