package dedupe

import "fmt"

type ChangeKind byte

const (
	ChangeAdd    ChangeKind = 'A'
	ChangeDelete ChangeKind = 'D'
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "add"
	case ChangeDelete:
		return "delete"
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

// Change is one pending-queue record. Delete records carry the stored
// serial only when they were produced by a serial change (HasSerial);
// the drain never reads it, the item index is authoritative.
type Change[ID comparable, S comparable] struct {
	Kind      ChangeKind
	ID        ID
	Serial    S
	HasSerial bool
}

func (c Change[ID, S]) String() string {
	if c.Kind == ChangeDelete && !c.HasSerial {
		return fmt.Sprintf("%s{%v}", c.Kind, c.ID)
	}
	return fmt.Sprintf("%s{%v %v}", c.Kind, c.ID, c.Serial)
}

// outcome of applying one change record, used as a metric label
type result string

const (
	resultCreated       result = "created"
	resultJoined        result = "joined"
	resultNoop          result = "noop"
	resultSuperseded    result = "superseded"
	resultUnknown       result = "unknown"
	resultMemberRemoved result = "member_removed"
	resultRootRemoved   result = "root_removed"
	resultOrphan        result = "orphan"
)
