package middleware

import (
	"sozluk/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AnonVotesKey is the session key of an anonymous visitor's vote list.
const AnonVotesKey = "anon_votes"

// LoadAnonVotes reads the anonymous vote list from the session. A corrupt
// value is logged and treated as empty.
func LoadAnonVotes(c *gin.Context) services.AnonVotes {
	raw, _ := sessions.Default(c).Get(AnonVotesKey).(string)
	votes, err := services.DecodeAnonVotes(raw)
	if err != nil {
		Logf(c, "discarding anon votes: %v", err)
		return services.AnonVotes{}
	}
	return votes
}

// SaveAnonVotes writes the list back to the session.
func SaveAnonVotes(c *gin.Context, votes services.AnonVotes) error {
	raw, err := votes.Encode()
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(AnonVotesKey, raw)
	if err := session.Save(); err != nil {
		Logf(c, "save session: %v", err)
		return err
	}
	return nil
}
