// Package host plays an audio.Stream through a platform audio device. It
// is kept apart from package audio because both backends need cgo or a
// running audio server on some platforms.
package host

import "io"

// Player is a running device output.
type Player interface {
	io.Closer
}
