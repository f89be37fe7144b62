package httpapi

import (
	"context"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/pick"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/domain/request"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

type createPoolRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Season          int    `json:"season" validate:"required,gte=2000,lte=2100"`
	WeekCount       int    `json:"week_count" validate:"omitempty,min=1,max=18"`
	MaxParticipants int    `json:"max_participants" validate:"gte=0"`
	MaxEntries      int    `json:"max_entries" validate:"omitempty,min=1,max=3"`
	EntryFee        int64  `json:"entry_fee" validate:"gte=0"`
	Description     string `json:"description" validate:"max=500"`
}

type updatePoolStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending open active completed"`
}

type createEntryRequestPayload struct {
	NumberOfEntries int `json:"number_of_entries" validate:"required,min=1,max=3"`
}

type confirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,max=120"`
	PaymentMethod string `json:"payment_method" validate:"required,max=40"`
}

type putPickRequest struct {
	Team string `json:"team" validate:"required,max=80"`
}

type patchPickRequest struct {
	Team *string `json:"team" validate:"omitempty,max=80"`
}

type internalJobSyncRequest struct {
	Week       int    `json:"week"`
	Force      bool   `json:"force"`
	DispatchID string `json:"dispatch_id"`
}

type poolDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Season          int    `json:"season"`
	CurrentWeek     int    `json:"current_week"`
	Status          string `json:"status"`
	WeekCount       int    `json:"week_count"`
	MaxParticipants int    `json:"max_participants"`
	MaxEntries      int    `json:"max_entries"`
	EntryFee        int64  `json:"entry_fee"`
	PrizePot        int64  `json:"prize_pot"`
	CreatorID       string `json:"creator_id"`
	Description     string `json:"description,omitempty"`
	CreatedAtUTC    string `json:"created_at_utc"`
	UpdatedAtUTC    string `json:"updated_at_utc"`
}

type gameDTO struct {
	ID        string `json:"id"`
	Season    int    `json:"season"`
	Week      int    `json:"week"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	KickoffAt string `json:"kickoff_at"`
	Status    string `json:"status"`
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
}

type requestDTO struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	PoolID          string `json:"pool_id"`
	NumberOfEntries int    `json:"number_of_entries"`
	Status          string `json:"status"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	TransactionID   string `json:"transaction_id,omitempty"`
	TotalAmount     int64  `json:"total_amount"`
	CreatedAtUTC    string `json:"created_at_utc"`
	UpdatedAtUTC    string `json:"updated_at_utc"`
}

type entryDTO struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	PoolID         string `json:"pool_id"`
	RequestID      string `json:"request_id"`
	EntryNumber    int    `json:"entry_number"`
	Status         string `json:"status"`
	EliminatedWeek *int   `json:"eliminated_week,omitempty"`
	CreatedAtUTC   string `json:"created_at_utc"`
	UpdatedAtUTC   string `json:"updated_at_utc"`
}

type pickDTO struct {
	ID           string `json:"id"`
	EntryID      string `json:"entry_id"`
	EntryNumber  int    `json:"entry_number"`
	PoolID       string `json:"pool_id"`
	Week         int    `json:"week"`
	Team         string `json:"team"`
	GameID       string `json:"game_id"`
	Result       string `json:"result"`
	PickedAtUTC  string `json:"picked_at_utc"`
	UpdatedAtUTC string `json:"updated_at_utc"`
}

type approvalResultDTO struct {
	Request requestDTO `json:"request"`
	Entries []entryDTO `json:"entries"`
}

func poolToDTO(ctx context.Context, v pool.Pool) poolDTO {
	ctx, span := startSpan(ctx, "httpapi.poolToDTO")
	defer span.End()

	return poolDTO{
		ID:              v.ID,
		Name:            v.Name,
		Season:          v.Season,
		CurrentWeek:     v.CurrentWeek,
		Status:          string(v.Status),
		WeekCount:       v.WeekCount,
		MaxParticipants: v.MaxParticipants,
		MaxEntries:      v.MaxEntries,
		EntryFee:        v.EntryFee,
		PrizePot:        v.PrizePot,
		CreatorID:       v.CreatorID,
		Description:     v.Description,
		CreatedAtUTC:    v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:    v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func gameToDTO(ctx context.Context, v game.Game) gameDTO {
	ctx, span := startSpan(ctx, "httpapi.gameToDTO")
	defer span.End()

	return gameDTO{
		ID:        v.ID,
		Season:    v.Season,
		Week:      v.Week,
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		KickoffAt: v.KickoffAt.UTC().Format(time.RFC3339),
		Status:    game.NormalizeStatus(v.Status),
		HomeScore: copyScore(v.HomeScore),
		AwayScore: copyScore(v.AwayScore),
	}
}

func requestToDTO(ctx context.Context, v request.Request) requestDTO {
	ctx, span := startSpan(ctx, "httpapi.requestToDTO")
	defer span.End()

	return requestDTO{
		ID:              v.ID,
		UserID:          v.UserID,
		PoolID:          v.PoolID,
		NumberOfEntries: v.NumberOfEntries,
		Status:          string(v.Status),
		PaymentMethod:   v.PaymentMethod,
		TransactionID:   v.TransactionID,
		TotalAmount:     v.TotalAmount,
		CreatedAtUTC:    v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:    v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func entryToDTO(ctx context.Context, v entry.Entry) entryDTO {
	ctx, span := startSpan(ctx, "httpapi.entryToDTO")
	defer span.End()

	return entryDTO{
		ID:             v.ID,
		UserID:         v.UserID,
		PoolID:         v.PoolID,
		RequestID:      v.RequestID,
		EntryNumber:    v.EntryNumber,
		Status:         string(v.Status),
		EliminatedWeek: copyScore(v.EliminatedWeek),
		CreatedAtUTC:   v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func pickToDTO(ctx context.Context, v pick.Pick) pickDTO {
	ctx, span := startSpan(ctx, "httpapi.pickToDTO")
	defer span.End()

	return pickDTO{
		ID:           v.ID,
		EntryID:      v.EntryID,
		EntryNumber:  v.EntryNumber,
		PoolID:       v.PoolID,
		Week:         v.Week,
		Team:         v.Team,
		GameID:       v.GameID,
		Result:       string(v.Result),
		PickedAtUTC:  v.PickedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func approvalToDTO(ctx context.Context, v usecase.ApprovalResult) approvalResultDTO {
	ctx, span := startSpan(ctx, "httpapi.approvalToDTO")
	defer span.End()

	entries := make([]entryDTO, 0, len(v.Entries))
	for _, e := range v.Entries {
		entries = append(entries, entryToDTO(ctx, e))
	}

	return approvalResultDTO{
		Request: requestToDTO(ctx, v.Request),
		Entries: entries,
	}
}

func copyScore(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
