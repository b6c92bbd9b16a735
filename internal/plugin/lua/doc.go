// Package lua runs editor plugins written in Lua.
//
// A script takes part in a hook by defining a global function named after
// it:
//
//	function handleKeyCommand(command)
//	  if command == "shout" then
//	    draft.insertText("!")
//	    return "handled"
//	  end
//	end
//
// Only the hooks with a defined function are reported to the editor.
// Handlers return "handled" or true to stop dispatch; onTab returns true to
// stop the remaining tab listeners; keyBindingFn and blockStyleFn return a
// string. Key events are passed as tables with the fields name, rune,
// ctrl, alt, shift and meta; blocks as tables with key, type, text, depth
// and data.
//
// # The draft module
//
// The global draft (also returned by require("draft")) reads and edits the
// snapshot the hook was called with:
//
//	draft.currentBlock()              block at the selection start, or nil
//	draft.blockText([key])            text of key or of the current block
//	draft.blockType([key])            type of key or of the current block
//	draft.selection()                 anchorKey, anchorOffset, focusKey,
//	                                  focusOffset, backward, collapsed
//	draft.addNewBlock(type, [data])
//	draft.resetBlockWithType(type, [data])
//	draft.toggleBlockType(type)
//	draft.insertText(text)
//	draft.setBlockData(key, data)
//	draft.log(message)
//
// Edits accumulate on a working copy. When the hook returns the result is
// committed through the editor, or, for onChange, returned as the new
// snapshot.
//
// # Sandbox
//
// States open only the base, table, string and math libraries. File
// loading functions are removed, require only resolves the draft module
// and every call runs under an execution timeout.
package lua
