package trpl

import "fmt"

// Either holds one of two values: a first-position value built with Left,
// or a second-position value built with Right. Race uses it to report which
// of its two arguments won; neither position is more of a "success" than
// the other.
//
// When A and B are comparable, Either values compare with ==. Two values
// are equal only when they hold the same position and equal payloads, so
// Left[int, int](1) != Right[int, int](1).
type Either[A, B any] struct {
	left    A
	right   B
	isRight bool
}

// Left returns an Either holding a first-position value.
func Left[A, B any](v A) Either[A, B] {
	return Either[A, B]{left: v}
}

// Right returns an Either holding a second-position value.
func Right[A, B any](v B) Either[A, B] {
	return Either[A, B]{right: v, isRight: true}
}

// IsLeft reports whether e holds a first-position value.
func (e Either[A, B]) IsLeft() bool {
	return !e.isRight
}

// IsRight reports whether e holds a second-position value.
func (e Either[A, B]) IsRight() bool {
	return e.isRight
}

// Left returns the first-position value. ok is false when e holds the
// second position, in which case the value is A's zero value.
func (e Either[A, B]) Left() (v A, ok bool) {
	if e.isRight {
		return v, false
	}
	return e.left, true
}

// Right returns the second-position value. ok is false when e holds the
// first position, in which case the value is B's zero value.
func (e Either[A, B]) Right() (v B, ok bool) {
	if !e.isRight {
		return v, false
	}
	return e.right, true
}

// String implements fmt.Stringer.
func (e Either[A, B]) String() string {
	if e.isRight {
		return fmt.Sprintf("Right(%v)", e.right)
	}
	return fmt.Sprintf("Left(%v)", e.left)
}
