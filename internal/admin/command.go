package admin

import "github.com/tturner/ladderctl/internal/ladder"

// Kind identifies the parsed command carried on the admin channel.
type Kind int

const (
	KindRun Kind = iota
	KindStop
	KindReset
	KindSet
	KindLoadRequest // "/load": caller wants the current program document back
	KindProgram     // "PROGRAM" + one JSON line: load a new program
)

// Command is one fully-parsed line (or line pair) off the admin transport,
// queued for the single main-loop goroutine to apply. Reply, if non-nil,
// must receive exactly one line before the connection goroutine will write
// a response back to the socket.
type Command struct {
	Kind  Kind
	Addr  string
	Value int64
	Doc   ladder.ProgramDocument
	Reply chan string
}
