// Package protocol implements the binary wire format used to stream head
// mutations to connected clients.
//
// A frame is a single type byte followed by a varint patch count and the
// patches themselves:
//
//	[Type: 1 byte][Count: varint][Patch]...
//
// Each patch starts with its operation byte and the target node ID:
//
//	[Op: 1 byte][ID: len-prefixed][payload]
//
// Payloads by operation:
//
//   - InsertNode: tag, attribute count, key/value pairs, has-text flag, text
//   - SetAttr: key, value
//   - RemoveAttr: key
//   - SetText: value
//   - RemoveNode: none
//
// Strings are length-prefixed with an unsigned varint (protobuf-style).
//
// FrameHead carries incremental mutations. FrameSnapshot carries the full
// managed head as InsertNode patches; clients drop every node they manage
// before applying it.
//
// A frame holds at most MaxPatches patches and an inserted node at most
// MaxAttrs attributes. EncodeFrames splits larger batches; frames after the
// first are FrameHead so a split snapshot resets the head only once.
package protocol
