package dice

// Recombine replaces normal dice with hunger dice. The hunger pool never
// exceeds the base pool.
func Recombine(req Request) Pools {
	pool := max(req.Pool, 0)
	hunger := max(req.Hunger, 0)
	return Pools{
		Normal: max(pool-hunger, 0),
		Hunger: min(pool, hunger),
	}
}

// RollPools draws the normal pool first, then the hunger pool.
func RollPools(pools Pools, src Source) Rolls {
	return Rolls{
		Normal: rollN(pools.Normal, src),
		Hunger: rollN(pools.Hunger, src),
	}
}

func rollN(n int, src Source) []int {
	rolls := make([]int, 0, max(n, 0))
	for i := 0; i < n; i++ {
		rolls = append(rolls, src.Next())
	}
	return rolls
}

// Count tallies successes, criticals and hunger failures.
func Count(rolls Rolls) Tally {
	normal := tallyPool(rolls.Normal, false)
	hunger := tallyPool(rolls.Hunger, true)

	criticals := normal.Criticals + hunger.Criticals
	return Tally{
		Normal:    normal,
		Hunger:    hunger,
		Criticals: criticals,
		Successes: normal.Successes + hunger.Successes + criticals/2*2,
	}
}

func tallyPool(rolls []int, countFailures bool) PoolTally {
	t := PoolTally{Rolls: append([]int(nil), rolls...)}
	for _, r := range rolls {
		if r >= SuccessThreshold {
			t.Successes++
		}
		if r >= CriticalValue {
			t.Criticals++
		}
		if countFailures && r <= FailureValue {
			t.Failures++
		}
	}
	return t
}

// Resolve recombines, rolls, counts and classifies a request.
//
// Resolve never fails: any request produces exactly one Outcome. Negative
// pool sizes are treated as empty pools.
func Resolve(req Request, src Source) Result {
	pools := Recombine(req)
	tally := Count(RollPools(pools, src))
	return Result{
		Request: req,
		Pools:   pools,
		Tally:   tally,
		Outcome: Classify(tally, req.Difficulty),
	}
}
