package core

import "github.com/ekinok/lingoroom/internal/domain"

// memberSession implements MemberSession by pairing meta + transport.
type memberSession struct {
	meta   *domain.Membership
	signal SignalConnection
}

func NewMemberSession(meta *domain.Membership, signal SignalConnection) MemberSession {
	return &memberSession{meta: meta, signal: signal}
}

func (m *memberSession) Meta() *domain.Membership { return m.meta }
func (m *memberSession) Signal() SignalConnection { return m.signal }
