package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/passguard/passguard/pkg/breach"
	"github.com/passguard/passguard/pkg/generate"
	"github.com/passguard/passguard/pkg/strength"
	"github.com/passguard/passguard/pkg/vault"
)

// VaultStatusInput has no fields; vault_status takes no arguments.
type VaultStatusInput struct{}

// VaultStatusOutput is the vault_status result.
type VaultStatusOutput struct {
	Exists      bool   `json:"exists"`
	AccountName string `json:"account_name,omitempty"`
	State       string `json:"state"`
	ItemCount   *int   `json:"item_count,omitempty"`
	TrashCount  *int   `json:"trash_count,omitempty"`
}

// PasswordGenerateInput selects the generation mode and length.
type PasswordGenerateInput struct {
	Mode   string `json:"mode,omitempty"`
	Length int    `json:"length,omitempty"`
}

// PasswordGenerateOutput carries the generated secret.
type PasswordGenerateOutput struct {
	Password string `json:"password"`
	Mode     string `json:"mode"`
	Score    int    `json:"score"`
}

// PasswordScoreInput is the password to score.
type PasswordScoreInput struct {
	Password string `json:"password"`
}

// PasswordScoreOutput is the score and its qualitative tier.
type PasswordScoreOutput struct {
	Score int    `json:"score"`
	Max   int    `json:"max"`
	Tier  string `json:"tier"`
}

// BreachCheckInput names the account and site to check.
type BreachCheckInput struct {
	Account string `json:"account"`
	Site    string `json:"site"`
}

// BreachCheckOutput is the advisory breach result.
type BreachCheckOutput struct {
	Result      string `json:"result"`
	Breached    bool   `json:"breached"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleVaultStatus(_ context.Context, _ *mcp.CallToolRequest, _ VaultStatusInput) (*mcp.CallToolResult, VaultStatusOutput, error) {
	exists, err := s.vault.CheckExists()
	if err != nil {
		return nil, VaultStatusOutput{}, err
	}

	output := VaultStatusOutput{
		Exists: exists,
		State:  s.vault.State().String(),
	}
	if exists {
		if name, err := s.vault.GetAccountName(); err == nil {
			output.AccountName = name
		}
	}
	if s.vault.State() == vault.StateUnlocked {
		if items, err := s.vault.ListItems(); err == nil {
			n := len(items)
			output.ItemCount = &n
		}
		if trash, err := s.vault.ListTrash(); err == nil {
			n := len(trash)
			output.TrashCount = &n
		}
	}
	return nil, output, nil
}

func (s *Server) handlePasswordGenerate(_ context.Context, _ *mcp.CallToolRequest, input PasswordGenerateInput) (*mcp.CallToolResult, PasswordGenerateOutput, error) {
	mode := generate.ModeCharsetFull
	if input.Mode != "" {
		parsed, err := generate.ParseMode(input.Mode)
		if err != nil {
			return nil, PasswordGenerateOutput{}, err
		}
		mode = parsed
	}
	length := input.Length
	if length == 0 {
		if mode == generate.ModePhrase {
			length = 5
		} else {
			length = 24
		}
	}

	password, err := generate.Generate(mode, length)
	if err != nil {
		return nil, PasswordGenerateOutput{}, err
	}
	return nil, PasswordGenerateOutput{
		Password: password,
		Mode:     string(mode),
		Score:    strength.Score(password),
	}, nil
}

func (s *Server) handlePasswordScore(_ context.Context, _ *mcp.CallToolRequest, input PasswordScoreInput) (*mcp.CallToolResult, PasswordScoreOutput, error) {
	score := strength.Score(input.Password)
	return nil, PasswordScoreOutput{
		Score: score,
		Max:   strength.MaxScore,
		Tier:  strength.Classify(score).String(),
	}, nil
}

func (s *Server) handleBreachCheck(ctx context.Context, _ *mcp.CallToolRequest, input BreachCheckInput) (*mcp.CallToolResult, BreachCheckOutput, error) {
	if input.Account == "" {
		return nil, BreachCheckOutput{}, errors.New("account is required")
	}
	if input.Site == "" {
		return nil, BreachCheckOutput{}, errors.New("site is required")
	}

	check := s.breach.CheckAccount(ctx, input.Account, input.Site)
	return nil, BreachCheckOutput{
		Result:      check.Result.String(),
		Breached:    check.Result == breach.ResultBreachFound,
		Description: check.Description,
	}, nil
}
