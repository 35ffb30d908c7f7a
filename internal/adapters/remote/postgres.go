package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"vision-app/internal/domain"
	"vision-app/internal/infra/metrics"
)

// Postgres реализует domain.RemoteStore поверх pgxpool.
// Каждой коллекции соответствует таблица с плоскими колонками; jsonb используется
// для массивов идентификаторов и вложенных комментариев.
type Postgres struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

var _ domain.RemoteStore = (*Postgres)(nil)

// NewPostgres создаёт адаптер удалённого хранилища.
func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) *Postgres {
	return &Postgres{pool: pool, log: logger}
}

// remoteErr помечает любую ошибку хранилища как ErrRemoteUnavailable:
// для движка синхронизации это «данных в этом цикле нет».
func remoteErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrRemoteUnavailable)
}

// FetchRecent возвращает ограниченное окно коллекции, новые первыми.
func (p *Postgres) FetchRecent(ctx context.Context, col domain.Collection, window domain.FetchWindow) ([]domain.Document, error) {
	start := time.Now()
	var (
		docs []domain.Document
		err  error
	)
	switch col {
	case domain.CollectionUsers:
		docs, err = p.fetchUsers(ctx)
	case domain.CollectionPosts:
		docs, err = p.fetchPosts(ctx, window.Limit)
	case domain.CollectionStories:
		docs, err = p.fetchStories(ctx, window.Since)
	case domain.CollectionProducts:
		docs, err = p.fetchProducts(ctx)
	case domain.CollectionMessages:
		docs, err = p.fetchMessages(ctx, window.Limit)
	default:
		return nil, fmt.Errorf("неизвестная коллекция %q", col)
	}
	metrics.ObserveNetworkRequest("postgres", "fetch_recent", string(col), start, err)
	if err != nil {
		return nil, remoteErr("fetch "+string(col), err)
	}
	return docs, nil
}

// UpsertMany вставляет записи с политикой insert-if-absent:
// существующая запись никогда не перезаписывается гонящейся локальной копией.
func (p *Postgres) UpsertMany(ctx context.Context, col domain.Collection, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	start := time.Now()
	var err error
	switch col {
	case domain.CollectionUsers:
		err = p.upsertUsers(ctx, docs)
	case domain.CollectionPosts:
		err = p.upsertPosts(ctx, docs)
	case domain.CollectionStories:
		err = p.upsertStories(ctx, docs)
	case domain.CollectionProducts:
		err = p.upsertProducts(ctx, docs)
	case domain.CollectionMessages:
		err = p.upsertMessages(ctx, docs)
	default:
		return fmt.Errorf("неизвестная коллекция %q", col)
	}
	metrics.ObserveNetworkRequest("postgres", "upsert_many", string(col), start, err)
	if err != nil {
		return remoteErr("upsert "+string(col), err)
	}
	return nil
}

func (p *Postgres) fetchUsers(ctx context.Context) ([]domain.Document, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, first_name, last_name, name, avatar, username, COALESCE(email,''),
       is_admin, is_verified, certification_status, followers, following
FROM users
ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var rec userRecord
		var followers, following []byte
		if err := rows.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.Name, &rec.Avatar, &rec.Username,
			&rec.Email, &rec.IsAdmin, &rec.IsVerified, &rec.CertificationStatus, &followers, &following); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(followers, &rec.Followers)
		_ = json.Unmarshal(following, &rec.Following)
		docs = p.appendValid(docs, rec.validate(), func() (domain.Document, error) { return docFromEntity(rec.toEntity()) })
	}
	return docs, rows.Err()
}

func (p *Postgres) fetchPosts(ctx context.Context, limit int) ([]domain.Document, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, author_id, type, content_url, caption, COALESCE(title,''), COALESCE(source,''),
       likes, comments, shares, views, "timestamp", COALESCE(category,'')
FROM posts
ORDER BY "timestamp" DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var rec postRecord
		var likes, comments []byte
		if err := rows.Scan(&rec.ID, &rec.AuthorID, &rec.Kind, &rec.ContentURL, &rec.Caption, &rec.Title,
			&rec.Source, &likes, &comments, &rec.Shares, &rec.Views, &rec.Timestamp, &rec.Category); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(likes, &rec.Likes)
		_ = json.Unmarshal(comments, &rec.Comments)
		docs = p.appendValid(docs, rec.validate(), func() (domain.Document, error) { return docFromEntity(rec.toEntity()) })
	}
	return docs, rows.Err()
}

func (p *Postgres) fetchStories(ctx context.Context, since time.Time) ([]domain.Document, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, user_id, image_url, type, viewed, views, "timestamp"
FROM stories
WHERE "timestamp" > $1
ORDER BY "timestamp" DESC`, since.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var rec storyRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ImageURL, &rec.Kind, &rec.Viewed, &rec.Views, &rec.Timestamp); err != nil {
			return nil, err
		}
		docs = p.appendValid(docs, rec.validate(), func() (domain.Document, error) { return docFromEntity(rec.toEntity()) })
	}
	return docs, rows.Err()
}

func (p *Postgres) fetchProducts(ctx context.Context) ([]domain.Document, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, name, price, image, category, description, currency
FROM products
ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var rec productRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Price, &rec.Image, &rec.Category, &rec.Description, &rec.Currency); err != nil {
			return nil, err
		}
		docs = p.appendValid(docs, rec.validate(), func() (domain.Document, error) { return docFromEntity(rec.toEntity()) })
	}
	return docs, rows.Err()
}

func (p *Postgres) fetchMessages(ctx context.Context, limit int) ([]domain.Document, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, sender_id, receiver_id, content, "timestamp", read
FROM messages
ORDER BY "timestamp" DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var rec messageRecord
		if err := rows.Scan(&rec.ID, &rec.SenderID, &rec.ReceiverID, &rec.Content, &rec.Timestamp, &rec.Read); err != nil {
			return nil, err
		}
		docs = p.appendValid(docs, rec.validate(), func() (domain.Document, error) { return docFromEntity(rec.toEntity()) })
	}
	return docs, rows.Err()
}

// appendValid добавляет документ, пропуская не прошедшие валидацию записи.
// Кривая запись в хранилище не должна ронять цикл синхронизации.
func (p *Postgres) appendValid(docs []domain.Document, validationErr error, build func() (domain.Document, error)) []domain.Document {
	if validationErr != nil {
		p.log.Warn().Err(validationErr).Msg("remote: запись пропущена")
		return docs
	}
	doc, err := build()
	if err != nil {
		p.log.Warn().Err(err).Msg("remote: не удалось закодировать запись")
		return docs
	}
	return append(docs, doc)
}

func (p *Postgres) upsertUsers(ctx context.Context, docs []domain.Document) error {
	batch := &pgx.Batch{}
	for _, doc := range docs {
		user, err := entityFromDoc[domain.User](doc)
		if err != nil {
			p.log.Warn().Err(err).Str("id", doc.ID()).Msg("remote: документ пользователя пропущен")
			continue
		}
		rec := userToRecord(user)
		if err := rec.validate(); err != nil {
			p.log.Warn().Err(err).Msg("remote: пользователь не прошёл валидацию")
			continue
		}
		followers, _ := json.Marshal(rec.Followers)
		following, _ := json.Marshal(rec.Following)
		batch.Queue(`
INSERT INTO users (id, first_name, last_name, name, avatar, username, email, is_admin, is_verified, certification_status, followers, following)
VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8,$9,$10,$11,$12)
ON CONFLICT (id) DO NOTHING`,
			rec.ID, rec.FirstName, rec.LastName, rec.Name, rec.Avatar, rec.Username, rec.Email,
			rec.IsAdmin, rec.IsVerified, rec.CertificationStatus, followers, following)
	}
	return p.sendBatch(ctx, batch)
}

func (p *Postgres) upsertPosts(ctx context.Context, docs []domain.Document) error {
	batch := &pgx.Batch{}
	for _, doc := range docs {
		post, err := entityFromDoc[domain.Post](doc)
		if err != nil {
			p.log.Warn().Err(err).Str("id", doc.ID()).Msg("remote: документ поста пропущен")
			continue
		}
		rec := postToRecord(post)
		if err := rec.validate(); err != nil {
			p.log.Warn().Err(err).Msg("remote: пост не прошёл валидацию")
			continue
		}
		likes, _ := json.Marshal(rec.Likes)
		comments, _ := json.Marshal(rec.Comments)
		batch.Queue(`
INSERT INTO posts (id, author_id, type, content_url, caption, title, source, likes, comments, shares, views, "timestamp", category)
VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NULLIF($7,''),$8,$9,$10,$11,$12,NULLIF($13,''))
ON CONFLICT (id) DO NOTHING`,
			rec.ID, rec.AuthorID, rec.Kind, rec.ContentURL, rec.Caption, rec.Title, rec.Source,
			likes, comments, rec.Shares, rec.Views, rec.Timestamp, rec.Category)
	}
	return p.sendBatch(ctx, batch)
}

func (p *Postgres) upsertStories(ctx context.Context, docs []domain.Document) error {
	batch := &pgx.Batch{}
	for _, doc := range docs {
		story, err := entityFromDoc[domain.Story](doc)
		if err != nil {
			p.log.Warn().Err(err).Str("id", doc.ID()).Msg("remote: документ сторис пропущен")
			continue
		}
		rec := storyToRecord(story)
		if err := rec.validate(); err != nil {
			p.log.Warn().Err(err).Msg("remote: сторис не прошла валидацию")
			continue
		}
		batch.Queue(`
INSERT INTO stories (id, user_id, image_url, type, viewed, views, "timestamp")
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO NOTHING`,
			rec.ID, rec.UserID, rec.ImageURL, rec.Kind, rec.Viewed, rec.Views, rec.Timestamp)
	}
	return p.sendBatch(ctx, batch)
}

func (p *Postgres) upsertProducts(ctx context.Context, docs []domain.Document) error {
	batch := &pgx.Batch{}
	for _, doc := range docs {
		product, err := entityFromDoc[domain.Product](doc)
		if err != nil {
			p.log.Warn().Err(err).Str("id", doc.ID()).Msg("remote: документ товара пропущен")
			continue
		}
		rec := productToRecord(product)
		if err := rec.validate(); err != nil {
			p.log.Warn().Err(err).Msg("remote: товар не прошёл валидацию")
			continue
		}
		batch.Queue(`
INSERT INTO products (id, name, price, image, category, description, currency)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO NOTHING`,
			rec.ID, rec.Name, rec.Price, rec.Image, rec.Category, rec.Description, rec.Currency)
	}
	return p.sendBatch(ctx, batch)
}

func (p *Postgres) upsertMessages(ctx context.Context, docs []domain.Document) error {
	batch := &pgx.Batch{}
	for _, doc := range docs {
		msg, err := entityFromDoc[domain.Message](doc)
		if err != nil {
			p.log.Warn().Err(err).Str("id", doc.ID()).Msg("remote: документ сообщения пропущен")
			continue
		}
		rec := messageToRecord(msg)
		if err := rec.validate(); err != nil {
			p.log.Warn().Err(err).Msg("remote: сообщение не прошло валидацию")
			continue
		}
		batch.Queue(`
INSERT INTO messages (id, sender_id, receiver_id, content, "timestamp", read)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO NOTHING`,
			rec.ID, rec.SenderID, rec.ReceiverID, rec.Content, rec.Timestamp, rec.Read)
	}
	return p.sendBatch(ctx, batch)
}

func (p *Postgres) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
