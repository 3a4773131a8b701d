// Package lifecycle implementa a máquina de estados do fluxo de aprovação de campanhas
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

type authorization int

const (
	ownerOnly authorization = iota
	adminOnly
	ownerOrAdmin
)

type transition struct {
	next   domain.CampaignStatus
	who    authorization
	verify func(c *domain.Campaign) error
}

// transitions é a tabela completa; qualquer par ausente é uma transição inválida
var transitions = map[domain.CampaignStatus]map[domain.Command]transition{
	domain.CampaignStatusDraft: {
		domain.CommandSubmit: {next: domain.CampaignStatusPending, who: ownerOnly, verify: requireContent},
		domain.CommandEdit:   {next: domain.CampaignStatusDraft, who: ownerOnly},
		domain.CommandDelete: {who: ownerOrAdmin},
	},
	domain.CampaignStatusPending: {
		domain.CommandApprove: {next: domain.CampaignStatusApproved, who: adminOnly},
		domain.CommandReject:  {next: domain.CampaignStatusRejected, who: adminOnly},
		domain.CommandDelete:  {who: ownerOrAdmin},
	},
	domain.CampaignStatusApproved: {
		domain.CommandComplete: {next: domain.CampaignStatusCompleted, who: ownerOrAdmin, verify: requireMessagesSent},
		domain.CommandDelete:   {who: ownerOrAdmin},
	},
	domain.CampaignStatusRejected: {
		domain.CommandReset:  {next: domain.CampaignStatusDraft, who: ownerOnly},
		domain.CommandDelete: {who: ownerOrAdmin},
	},
	domain.CampaignStatusCompleted: {
		domain.CommandDelete: {who: ownerOrAdmin},
	},
}

// Next avalia o comando contra o status atual da campanha e devolve o próximo status.
// Para delete o status devolvido é vazio, já que a campanha deixa de existir.
// A ordem de avaliação é: transição permitida, autorização do ator e pré-condições.
// Next não altera a campanha.
func Next(c *domain.Campaign, cmd domain.Command, actor domain.Actor) (domain.CampaignStatus, error) {
	if c == nil {
		return "", domain.ErrNotFound
	}

	t, ok := transitions[c.Status][cmd]
	if !ok {
		return "", fmt.Errorf("%w: %s a partir de %s", domain.ErrInvalidTransition, cmd, c.Status)
	}

	if !authorized(t.who, c, actor) {
		return "", fmt.Errorf("%w: %s exige %s", domain.ErrForbidden, cmd, t.who)
	}

	if t.verify != nil {
		if err := t.verify(c); err != nil {
			return "", err
		}
	}

	return t.next, nil
}

// Allowed lista os comandos aceitos a partir do status, sem considerar o ator
func Allowed(status domain.CampaignStatus) []domain.Command {
	commands := make([]domain.Command, 0, len(transitions[status]))
	for _, cmd := range domain.Commands {
		if _, ok := transitions[status][cmd]; ok {
			commands = append(commands, cmd)
		}
	}
	return commands
}

// AllowedFor lista os comandos que o ator pode executar na campanha no status atual
func AllowedFor(c *domain.Campaign, actor domain.Actor) []domain.Command {
	if c == nil {
		return nil
	}

	commands := make([]domain.Command, 0)
	for _, cmd := range Allowed(c.Status) {
		if authorized(transitions[c.Status][cmd].who, c, actor) {
			commands = append(commands, cmd)
		}
	}
	return commands
}

func authorized(who authorization, c *domain.Campaign, actor domain.Actor) bool {
	switch who {
	case ownerOnly:
		return c.IsOwnedBy(actor)
	case adminOnly:
		return actor.IsAdmin()
	case ownerOrAdmin:
		return c.IsOwnedBy(actor) || actor.IsAdmin()
	}
	return false
}

func (a authorization) String() string {
	switch a {
	case ownerOnly:
		return "o dono da campanha"
	case adminOnly:
		return "um administrador"
	case ownerOrAdmin:
		return "o dono da campanha ou um administrador"
	}
	return "desconhecido"
}

func requireContent(c *domain.Campaign) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: nome da campanha é obrigatório", domain.ErrInvalid)
	}
	if strings.TrimSpace(c.Message) == "" {
		return fmt.Errorf("%w: mensagem da campanha é obrigatória", domain.ErrInvalid)
	}
	return nil
}

func requireMessagesSent(c *domain.Campaign) error {
	if c.Metrics.MessagesSent == 0 {
		return fmt.Errorf("%w: nenhuma mensagem enviada ainda", domain.ErrInvalid)
	}
	return nil
}
