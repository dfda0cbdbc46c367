package handler

import "strings"

// Canonical command names.
const (
	CmdStart   = "start"
	CmdSummary = "summary"
	CmdShow    = "show"
	CmdStatus  = "status"
	CmdHelp    = "help"
	CmdTier    = "tier"
	CmdPay     = "pay"
	CmdSponsor = "sponsor"
)

// aliases maps every accepted spelling to its canonical command.
var aliases = map[string]string{
	"start":    CmdStart,
	"s":        CmdSummary,
	"summ":     CmdSummary,
	"summary":  CmdSummary,
	"generate": CmdSummary,
	"tldr":     CmdSummary,
	"show":     CmdShow,
	"l":        CmdShow,
	"last":     CmdShow,
	"status":   CmdStatus,
	"?":        CmdHelp,
	"help":     CmdHelp,
	"tier":     CmdTier,
	"pay":      CmdPay,
	"buy":      CmdPay,
	"p":        CmdPay,
	"sponsor":  CmdSponsor,
}

// Command is a parsed bot command with its raw argument string.
type Command struct {
	Name string
	Args string
}

// Parser resolves command text to a canonical command. In group chats
// commands may carry an "@botname" suffix; commands addressed to a
// different bot are not ours.
type Parser struct {
	botUsername string
}

func NewParser(botUsername string) *Parser {
	return &Parser{botUsername: strings.ToLower(botUsername)}
}

// Parse returns the command and whether the text is addressed to this
// bot. Unknown but addressed commands are returned with their raw name so
// the dispatcher can answer "Unknown command".
func (p *Parser) Parse(text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return Command{}, false
	}

	name, args, _ := strings.Cut(text[1:], " ")
	name = strings.ToLower(name)
	if name == "" {
		return Command{}, false
	}

	if base, mention, found := strings.Cut(name, "@"); found {
		if mention != p.botUsername {
			return Command{}, false
		}
		name = base
	}

	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	return Command{Name: name, Args: strings.TrimSpace(args)}, true
}
