package matching

import "ggnmatch/internal/ggn"

// DefaultPlatforms is the platform preference, most preferred first.
var DefaultPlatforms = []string{"Windows", "Mac", "Linux"}

// Selector chooses the best candidate group for an entry.
type Selector struct {
	// Platforms ranks acceptable platforms for the fallback match.
	Platforms []string
	// AllowNonSteamLinks admits groups whose only links are non-Steam to the
	// platform fallback. When false only groups with no links qualify.
	AllowNonSteamLinks bool
}

// DefaultSelector returns the Windows, Mac, Linux preference with the strict
// no-links fallback.
func DefaultSelector() Selector {
	platforms := make([]string, len(DefaultPlatforms))
	copy(platforms, DefaultPlatforms)
	return Selector{Platforms: platforms}
}

// selection is the fold accumulator. idMatch ends the fold; platformMatch is
// only replaced by a strictly better rank.
type selection struct {
	idMatch       *Candidate
	platformMatch *Candidate
	platformRank  int
}

// Select evaluates candidates in order. The first candidate whose Steam app id
// equals externalID wins outright. Otherwise the eligible candidate on the
// best-ranked platform wins, earliest first among equal ranks.
func (s Selector) Select(candidates []Candidate, externalID string) Outcome {
	acc := selection{platformRank: len(s.Platforms)}
	for i := range candidates {
		if acc = s.step(acc, &candidates[i], externalID); acc.idMatch != nil {
			break
		}
	}

	switch {
	case acc.idMatch != nil:
		return HighConfidence(acc.idMatch.GroupID)
	case acc.platformMatch != nil:
		return PreferredPlatform(acc.platformMatch.GroupID, acc.platformMatch.Platform)
	default:
		return NoMatch(ReasonNoPreferredPlatform)
	}
}

func (s Selector) step(acc selection, candidate *Candidate, externalID string) selection {
	if externalID != "" && candidate.SteamAppID == externalID {
		acc.idMatch = candidate
		return acc
	}
	if !s.platformEligible(candidate) {
		return acc
	}
	if rank := s.rank(candidate.Platform); rank < acc.platformRank {
		acc.platformMatch = candidate
		acc.platformRank = rank
	}
	return acc
}

func (s Selector) platformEligible(candidate *Candidate) bool {
	if s.AllowNonSteamLinks {
		return !candidate.SteamLinked
	}
	return !candidate.Linked
}

// rank returns the platform's index in the preference list, or
// len(Platforms) when it is not listed.
func (s Selector) rank(platform string) int {
	for i, preferred := range s.Platforms {
		if platform == preferred {
			return i
		}
	}
	return len(s.Platforms)
}

// Resolve turns a lookup result into an outcome. A remote failure becomes a
// no-match carrying the remote reason.
func (s Selector) Resolve(result ggn.LookupResult, externalID string) Outcome {
	if result.Failed {
		reason := result.Reason
		if reason == "" {
			reason = ReasonUnknownError
		}
		return NoMatch(reason)
	}
	return s.Select(Candidates(result.Groups), externalID)
}
