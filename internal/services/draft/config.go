// File: internal/services/draft/config.go
package draft

import "fmt"

type Config struct {
	HistoryLimit       int // Turns replayed into a modify prompt
	MaxInstructionSize int // Bytes accepted for instruction and tone
	MaxTextSize        int // Bytes accepted for paraphrase and reply bodies
}

func (c *Config) Validate() error {
	if c.HistoryLimit < 1 || c.HistoryLimit > 100 {
		return fmt.Errorf("history_limit must be between 1 and 100")
	}
	if c.MaxInstructionSize <= 0 {
		return fmt.Errorf("max_instruction_size must be positive")
	}
	if c.MaxTextSize <= 0 {
		return fmt.Errorf("max_text_size must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:       5,
		MaxInstructionSize: 4000,
		MaxTextSize:        20000,
	}
}
