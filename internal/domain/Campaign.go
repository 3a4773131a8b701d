package domain

import (
	"fmt"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusApproved  CampaignStatus = "approved"
	CampaignStatusRejected  CampaignStatus = "rejected"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// CampaignStatuses lista todos os status válidos, na ordem do fluxo de aprovação
var CampaignStatuses = []CampaignStatus{
	CampaignStatusDraft,
	CampaignStatusPending,
	CampaignStatusApproved,
	CampaignStatusRejected,
	CampaignStatusCompleted,
}

// ParseCampaignStatus converte uma string em CampaignStatus, rejeitando valores desconhecidos
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	for _, status := range CampaignStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: status de campanha desconhecido %q", ErrInvalid, s)
}

// IsTerminal indica os estados finais do fluxo de aprovação
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusRejected || s == CampaignStatusCompleted
}

type Campaign struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"owner_id"`
	Name          string         `json:"name"`
	Message       string         `json:"message"`
	AdImage       *string        `json:"ad_image,omitempty"`
	TargetFilters TargetFilters  `json:"target_filters"`
	Status        CampaignStatus `json:"status"`
	Metrics       Metrics        `json:"metrics"`
	Version       int64          `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Clone devolve uma cópia profunda, para que alterações não vazem para o registro armazenado
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}

	clone := *c
	if c.AdImage != nil {
		image := *c.AdImage
		clone.AdImage = &image
	}
	clone.TargetFilters = c.TargetFilters.Clone()
	return &clone
}

func (c *Campaign) IsOwnedBy(actor Actor) bool {
	return c != nil && actor.UserID != "" && c.OwnerID == actor.UserID
}

type Metrics struct {
	MessagesSent      int64 `json:"messages_sent"`
	MessagesDelivered int64 `json:"messages_delivered"`
	StoreVisits       int64 `json:"store_visits"`
}

type MetricKind string

const (
	MetricKindSent      MetricKind = "sent"
	MetricKindDelivered MetricKind = "delivered"
	MetricKindVisit     MetricKind = "visit"
)

func ParseMetricKind(s string) (MetricKind, error) {
	switch MetricKind(s) {
	case MetricKindSent, MetricKindDelivered, MetricKindVisit:
		return MetricKind(s), nil
	}
	return "", fmt.Errorf("%w: tipo de evento de entrega desconhecido %q", ErrInvalid, s)
}

// Column retorna a coluna persistida do contador
func (k MetricKind) Column() string {
	switch k {
	case MetricKindSent:
		return "messages_sent"
	case MetricKindDelivered:
		return "messages_delivered"
	case MetricKindVisit:
		return "store_visits"
	}
	return ""
}

// Command representa um comando do ciclo de vida de uma campanha
type Command string

const (
	CommandSubmit   Command = "submit"
	CommandApprove  Command = "approve"
	CommandReject   Command = "reject"
	CommandComplete Command = "complete"
	CommandReset    Command = "reset"
	CommandEdit     Command = "edit"
	CommandDelete   Command = "delete"
)

var Commands = []Command{
	CommandSubmit,
	CommandApprove,
	CommandReject,
	CommandComplete,
	CommandReset,
	CommandEdit,
	CommandDelete,
}

func ParseCommand(s string) (Command, error) {
	for _, cmd := range Commands {
		if string(cmd) == s {
			return cmd, nil
		}
	}
	return "", fmt.Errorf("%w: comando desconhecido %q", ErrInvalid, s)
}

// DeliveryEvent é o resultado de um envio reportado pelo pipeline de entrega
type DeliveryEvent struct {
	EventID    string     `json:"event_id,omitempty"`
	CampaignID string     `json:"campaign_id"`
	Kind       MetricKind `json:"kind"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// CampaignMetricsSnapshot é uma linha do histórico diário de métricas
type CampaignMetricsSnapshot struct {
	CampaignID string    `json:"campaign_id"`
	Date       time.Time `json:"date"`
	Metrics
}
