package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/whosreal/internal/domain"
	"github.com/bft-labs/whosreal/internal/ports"
)

// MessageComposer produces the next message to publish.
type MessageComposer interface {
	Compose(ctx context.Context) (domain.Message, error)
}

// Composer draws one real and one fake name against the shared ledger.
type Composer struct {
	ledger   ports.Ledger
	realPath string
	fakePath string
	rnd      domain.Rand
}

// NewComposer creates a Composer over the real corpus and the fake pool.
func NewComposer(ledger ports.Ledger, realPath, fakePath string, rnd domain.Rand) *Composer {
	return &Composer{
		ledger:   ledger,
		realPath: realPath,
		fakePath: fakePath,
		rnd:      rnd,
	}
}

// Compose draws both names in one ledger section, so either both are
// recorded or neither is, and shuffles them into the message slots.
func (c *Composer) Compose(ctx context.Context) (domain.Message, error) {
	var msg domain.Message
	err := c.ledger.Update(ctx, func(tx ports.LedgerTx) error {
		realName, err := tx.Draw(c.realPath)
		if err != nil {
			return fmt.Errorf("draw real name: %w", err)
		}
		fakeName, err := tx.Draw(c.fakePath)
		if err != nil {
			return fmt.Errorf("draw fake name: %w", err)
		}
		msg = domain.NewMessage(realName, fakeName, c.rnd.Intn(2) == 0)
		return nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}
