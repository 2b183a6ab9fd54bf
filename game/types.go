package game

// Phase is the part of the match that is being played.
type Phase int

// The phases of a match.
const (
	FirstHalf Phase = iota
	SecondHalf
	PenaltyShootout
)

var phaseNames = enumNames{
	what:  "phase",
	names: []string{"firstHalf", "secondHalf", "penaltyShootout"},
}

func (p Phase) String() string { return phaseNames.String(int(p)) }

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return phaseNames.marshal(int(p)) }

// UnmarshalText decodes the phase from its name.
func (p *Phase) UnmarshalText(text []byte) error {
	v, err := phaseNames.unmarshal(text)
	if err != nil {
		return err
	}

	*p = Phase(v)

	return nil
}

// State is the primary state of the match.
type State int

// The primary states.
const (
	Initial State = iota
	Ready
	Set
	Playing
	Finished
	Timeout
)

var stateNames = enumNames{
	what: "state",
	names: []string{
		"initial", "ready", "set", "playing", "finished", "timeout",
	},
}

func (s State) String() string { return stateNames.String(int(s)) }

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return stateNames.marshal(int(s)) }

// UnmarshalText decodes the state from its name.
func (s *State) UnmarshalText(text []byte) error {
	v, err := stateNames.unmarshal(text)
	if err != nil {
		return err
	}

	*s = State(v)

	return nil
}

// SecState is the overlap sub-state used by the humanoid leagues. It tracks a
// special condition without losing the primary state to return to.
type SecState int

// The overlap sub-states.
const (
	SecNormal SecState = iota
	SecTimeout
	SecDirectFreeKick
	SecIndirectFreeKick
	SecPenaltyKick
	SecThrowIn
	SecGoalKick
	SecCornerKick
)

var secStateNames = enumNames{
	what: "secondary state",
	names: []string{
		"normal", "timeout", "directFreeKick", "indirectFreeKick",
		"penaltyKick", "throwIn", "goalKick", "cornerKick",
	},
}

func (s SecState) String() string { return secStateNames.String(int(s)) }

// MarshalText encodes the sub-state by name.
func (s SecState) MarshalText() ([]byte, error) {
	return secStateNames.marshal(int(s))
}

// UnmarshalText decodes the sub-state from its name.
func (s *SecState) UnmarshalText(text []byte) error {
	v, err := secStateNames.unmarshal(text)
	if err != nil {
		return err
	}

	*s = SecState(v)

	return nil
}

// SecondaryState is the overlap sub-state together with the side it belongs
// to.
type SecondaryState struct {
	State SecState `json:"state" yaml:"state"`
	Side  Side     `json:"side" yaml:"side"`
}

// SetPlay is the set play in progress, if any.
type SetPlay int

// The set plays.
const (
	NoSetPlay SetPlay = iota
	KickOff
	KickIn
	GoalKick
	CornerKick
	PushingFreeKick
	PenaltyKick
)

var setPlayNames = enumNames{
	what: "set play",
	names: []string{
		"noSetPlay", "kickOff", "kickIn", "goalKick", "cornerKick",
		"pushingFreeKick", "penaltyKick",
	},
}

func (s SetPlay) String() string { return setPlayNames.String(int(s)) }

// MarshalText encodes the set play by name.
func (s SetPlay) MarshalText() ([]byte, error) {
	return setPlayNames.marshal(int(s))
}

// UnmarshalText decodes the set play from its name.
func (s *SetPlay) UnmarshalText(text []byte) error {
	v, err := setPlayNames.unmarshal(text)
	if err != nil {
		return err
	}

	*s = SetPlay(v)

	return nil
}

// Penalty is the penalty a player currently serves.
type Penalty int

// The penalties.
const (
	NoPenalty Penalty = iota
	Substitute
	PickedUp
	IllegalPositioning
	MotionInSet
	PlayerPushing
	BallHolding
	LeavingTheField
)

var penaltyNames = enumNames{
	what: "penalty",
	names: []string{
		"noPenalty", "substitute", "pickedUp", "illegalPositioning",
		"motionInSet", "playerPushing", "ballHolding", "leavingTheField",
	},
}

func (p Penalty) String() string { return penaltyNames.String(int(p)) }

// MarshalText encodes the penalty by name.
func (p Penalty) MarshalText() ([]byte, error) {
	return penaltyNames.marshal(int(p))
}

// UnmarshalText decodes the penalty from its name.
func (p *Penalty) UnmarshalText(text []byte) error {
	v, err := penaltyNames.unmarshal(text)
	if err != nil {
		return err
	}

	*p = Penalty(v)

	return nil
}

// League selects the rule set.
type League int

// The supported leagues.
const (
	SPL League = iota
	HumanoidKid
	HumanoidAdult
)

var leagueNames = enumNames{
	what:  "league",
	names: []string{"spl", "humanoidKid", "humanoidAdult"},
}

// IsSPL tells if the league uses the rewindable-clock rules. All other
// leagues track timeouts through the overlap sub-state.
func (l League) IsSPL() bool { return l == SPL }

func (l League) String() string { return leagueNames.String(int(l)) }

// MarshalText encodes the league by name.
func (l League) MarshalText() ([]byte, error) {
	return leagueNames.marshal(int(l))
}

// UnmarshalText decodes the league from its name.
func (l *League) UnmarshalText(text []byte) error {
	v, err := leagueNames.unmarshal(text)
	if err != nil {
		return err
	}

	*l = League(v)

	return nil
}
