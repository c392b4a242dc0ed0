package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"herbula/api/internal/plant"
)

var ErrNotFound = plant.ErrNotFound

type IdentificationRepo struct{ DB *sql.DB }

func NewIdentificationRepo(db *sql.DB) *IdentificationRepo { return &IdentificationRepo{DB: db} }

const schema = `
create table if not exists identifications (
    id          bigserial primary key,
    request_id  uuid        not null unique,
    created_at  timestamptz not null default now(),
    source      text        not null default 'http',
    chat_id     bigint,
    engine      text        not null,
    model       text        not null,
    image_count int         not null,
    image_hash  text        not null,
    name        text        not null default '',
    category    text        not null default '',
    result_json jsonb       not null
);
create index if not exists identifications_hash_idx
    on identifications (image_hash, engine, model, created_at desc);
create index if not exists identifications_chat_idx
    on identifications (chat_id, created_at desc);`

// EnsureSchema создаёт таблицу и индексы, если их ещё нет.
func (r *IdentificationRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *IdentificationRepo) Insert(ctx context.Context, rec plant.Record) error {
	const q = `
insert into identifications(request_id, created_at, source, chat_id, engine, model,
                            image_count, image_hash, name, category, result_json)
values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	source := rec.Source
	if source == "" {
		source = "http"
	}
	var chatID sql.NullInt64
	if rec.ChatID != 0 {
		chatID = sql.NullInt64{Int64: rec.ChatID, Valid: true}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, q,
		rec.RequestID, createdAt, source, chatID, rec.Engine, rec.Model,
		rec.ImageCount, rec.ImageHash, rec.Plant.Name, string(rec.Plant.Category), []byte(rec.Raw))
	return err
}

const selectCols = `select request_id, created_at, engine, model, image_count, image_hash, result_json
from identifications`

// FindByHash достаёт самую свежую запись по ключу (image_hash + engine + model).
// Если maxAge > 0, проверяет "свежесть", иначе игнорирует возраст.
func (r *IdentificationRepo) FindByHash(ctx context.Context, imageHash, engine, model string, maxAge time.Duration) (plant.Identification, error) {
	const q = selectCols + `
where image_hash = $1 and engine = $2 and model = $3
order by created_at desc
limit 1`
	id, err := scanIdentification(r.DB.QueryRowContext(ctx, q, imageHash, engine, model))
	if errors.Is(err, sql.ErrNoRows) {
		return plant.Identification{}, ErrNotFound
	}
	if err != nil {
		return plant.Identification{}, err
	}
	if maxAge > 0 && time.Since(id.CreatedAt) > maxAge {
		return plant.Identification{}, ErrNotFound
	}
	return id, nil
}

// RecentByChat returns the newest identifications of a Telegram chat.
func (r *IdentificationRepo) RecentByChat(ctx context.Context, chatID int64, limit int) ([]plant.Identification, error) {
	if limit <= 0 {
		limit = 5
	}
	const q = selectCols + `
where chat_id = $1
order by created_at desc
limit $2`
	rows, err := r.DB.QueryContext(ctx, q, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plant.Identification
	for rows.Next() {
		id, err := scanIdentification(rows)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIdentification(s scanner) (plant.Identification, error) {
	var (
		id plant.Identification
		js []byte
	)
	if err := s.Scan(&id.RequestID, &id.CreatedAt, &id.Engine, &id.Model,
		&id.ImageCount, &id.ImageHash, &js); err != nil {
		return plant.Identification{}, err
	}
	p, raw, err := plant.DecodeReply(string(js))
	if err != nil {
		// битый JSON считаем отсутствующей записью
		return plant.Identification{}, ErrNotFound
	}
	id.Plant = p
	id.Raw = raw
	return id, nil
}
