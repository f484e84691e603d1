package llm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
)

// logCompletion writes the raw API response to a timestamped file in the
// completion log directory. Failures are logged and otherwise ignored;
// completion logging never blocks generation.
func (c *Client) logCompletion(resp openai.ChatCompletionResponse) {
	if c.logDir == "" {
		return
	}
	if err := os.MkdirAll(c.logDir, 0o750); err != nil {
		log.Warn().Err(err).Str("dir", c.logDir).Msg("creating completion log directory")
		return
	}

	name := fmt.Sprintf("%s-%s-completion.json",
		time.Now().Format("2006-01-02_15-04-05"), uuid.NewString()[:8])
	path := filepath.Join(c.logDir, name)

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("encoding completion log")
		return
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("writing completion log")
	}
}
