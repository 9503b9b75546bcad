// Package dice resolves Vampire: the Masquerade 5th edition dice pools.
//
// Resolution is a staged data flow. Each stage takes the previous stage's
// value and returns a new one:
//
//	Recombine(Request) -> Pools
//	RollPools(Pools, Source) -> Rolls
//	Count(Rolls) -> Tally
//	Classify(Tally, difficulty) -> Outcome
//
// Resolve runs every stage for a single request.
package dice

const (
	// Sides is the number of faces on every die in a pool.
	Sides = 10
	// FailureValue marks a hunger die that makes a failed roll messy.
	FailureValue = 1
	// SuccessThreshold is the lowest face that counts as a success.
	SuccessThreshold = 6
	// CriticalValue is the face that counts as a critical.
	CriticalValue = 10
)

// Request is a parsed roll command.
type Request struct {
	Pool       int
	Hunger     int
	Difficulty int
}

// Pools holds the dice counts after hunger dice replace normal dice.
type Pools struct {
	Normal int
	Hunger int
}

// Rolls holds the faces rolled for each pool in generation order.
type Rolls struct {
	Normal []int
	Hunger []int
}

// PoolTally counts the dice of a single pool.
type PoolTally struct {
	Rolls     []int
	Successes int
	Criticals int
	// Failures is only counted for the hunger pool.
	Failures int
}

// Tally aggregates both pools.
//
// Successes includes the critical pair bonus: every two criticals add two
// successes on top of their own.
type Tally struct {
	Normal    PoolTally
	Hunger    PoolTally
	Criticals int
	Successes int
}

// Result is the fully resolved roll.
type Result struct {
	Request Request
	Pools   Pools
	Tally   Tally
	Outcome Outcome
}
