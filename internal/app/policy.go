package app

import "github.com/ekinok/lingoroom/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what to do with a member whose connection could not
// accept a broadcast frame.
type Policy interface {
	OnBackPressure(member core.MemberSession) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(member core.MemberSession) BackpressureAction {
	return KickMember
}
