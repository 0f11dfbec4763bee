// Package human implements the "ask human" capability: given a question, get
// an answer from whoever operates this agent. Implementations cover the
// interactive console, the pre-seeded non-interactive deployments, and chat
// platforms where the operator sits behind Telegram or Slack.
package human

import "context"

// Asker answers a question on behalf of the human operator.
// Ask blocks until an answer is available or ctx is cancelled.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}
