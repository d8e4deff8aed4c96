package garage

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("unknown garage kind")

// Kind is the garage type. Values match the ids used by placement data and
// mission scripts.
type Kind int

const (
	Mission                       Kind = 1
	BombShop1                     Kind = 2
	BombShop2                     Kind = 3
	BombShop3                     Kind = 4
	Respray                       Kind = 5
	CollectCars1                  Kind = 8
	CollectCars2                  Kind = 9
	MissionForCarToComeOut        Kind = 11
	Crusher                       Kind = 13
	MissionKeepCar                Kind = 14
	Hideout1                      Kind = 16
	Hideout2                      Kind = 17
	Hideout3                      Kind = 18
	MissionToOpenAndClose         Kind = 19
	MissionForSpecificCar         Kind = 20
	MissionKeepCarAndRemainClosed Kind = 21
)

var kindNames = map[Kind]string{
	Mission:                       "Mission",
	BombShop1:                     "BombShop1",
	BombShop2:                     "BombShop2",
	BombShop3:                     "BombShop3",
	Respray:                       "Respray",
	CollectCars1:                  "CollectCars1",
	CollectCars2:                  "CollectCars2",
	MissionForCarToComeOut:        "MissionForCarToComeOut",
	Crusher:                       "Crusher",
	MissionKeepCar:                "MissionKeepCar",
	Hideout1:                      "Hideout1",
	Hideout2:                      "Hideout2",
	Hideout3:                      "Hideout3",
	MissionToOpenAndClose:         "MissionToOpenAndClose",
	MissionForSpecificCar:         "MissionForSpecificCar",
	MissionKeepCarAndRemainClosed: "MissionKeepCarAndRemainClosed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind validates a numeric garage id.
func ParseKind(id int) (Kind, error) {
	k := Kind(id)
	if _, ok := kindNames[k]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, id)
	}
	return k, nil
}

// ParseKindName looks a kind up by its name, ignoring case.
func ParseKindName(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// startsOpen reports whether a kind begins the session with its door up.
func (k Kind) startsOpen() bool {
	switch k {
	case BombShop1, BombShop2, BombShop3, Respray, Crusher:
		return true
	}
	return false
}

type State int

const (
	Closed State = iota
	Opening
	Opened
	Closing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Opened:
		return "opened"
	case Closing:
		return "closing"
	}
	return "unknown"
}
