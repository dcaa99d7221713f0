package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
)

const productColumns = `id, seller_id, source, external_id, name, sku,
	search_string, image_url, price, variants, attributes, is_active,
	created_at, updated_at, last_synced_at`

// SaveProducts upserts a batch of products in a single transaction.
func (s *SQLiteStorage) SaveProducts(ctx context.Context, products []model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProducts(products); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, seller_id, source, external_id, name, sku,
			search_string, image_url, price, variants, attributes, is_active,
			created_at, updated_at, last_synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seller_id = excluded.seller_id,
			source = excluded.source,
			external_id = excluded.external_id,
			name = excluded.name,
			sku = excluded.sku,
			search_string = excluded.search_string,
			image_url = excluded.image_url,
			price = excluded.price,
			variants = excluded.variants,
			attributes = excluded.attributes,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at,
			last_synced_at = excluded.last_synced_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	for i := range products {
		p := &products[i]
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now

		variants, attributes, jsonErr := marshalProduct(p)
		if jsonErr != nil {
			return jsonErr
		}

		if _, execErr := stmt.ExecContext(ctx,
			p.ID, p.SellerID, string(p.Source), p.ExternalID, p.Name, p.SKU,
			p.SearchString, p.ImageURL, p.Price, variants, attributes,
			p.IsActive, p.CreatedAt, p.UpdatedAt, p.LastSyncedAt,
		); execErr != nil {
			return fmt.Errorf("failed to save product %s: %w", p.ID, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit products: %w", err)
	}
	return nil
}

// GetProductByID fetches a product by its id, soft-deleted records included.
func (s *SQLiteStorage) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// GetProductBySKU fetches an active product by sku, case-insensitively.
func (s *SQLiteStorage) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sku, "sku"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE sku = ? COLLATE NOCASE AND is_active = 1`, sku)
	return scanProduct(row)
}

// GetProducts lists products matching the filter, newest first. Soft-deleted
// records are excluded unless the filter asks for them.
func (s *SQLiteStorage) GetProducts(ctx context.Context, filter service.ProductFilter) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if !filter.IncludeInactive {
		query += ` AND is_active = 1`
	}
	if filter.SellerID != "" {
		query += ` AND seller_id = ?`
		args = append(args, filter.SellerID)
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(filter.Source))
	}
	query += ` ORDER BY updated_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		p, scanErr := scanProductRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// UpdateProduct rewrites a single product record.
func (s *SQLiteStorage) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProduct(product); err != nil {
		return err
	}

	variants, attributes, err := marshalProduct(product)
	if err != nil {
		return err
	}
	product.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			seller_id = ?, source = ?, external_id = ?, name = ?, sku = ?,
			search_string = ?, image_url = ?, price = ?, variants = ?,
			attributes = ?, is_active = ?, updated_at = ?, last_synced_at = ?
		WHERE id = ?`,
		product.SellerID, string(product.Source), product.ExternalID,
		product.Name, product.SKU, product.SearchString, product.ImageURL,
		product.Price, variants, attributes, product.IsActive,
		product.UpdatedAt, product.LastSyncedAt, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}

	return requireRow(result, product.ID)
}

// DeactivateProduct soft-deletes a product. The record stays for history
// but disappears from listing and search.
func (s *SQLiteStorage) DeactivateProduct(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate product %s: %w", id, err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s", common.ErrNotFound, id)
	}
	return nil
}

func marshalProduct(p *model.Product) (variants, attributes []byte, err error) {
	variants, err = json.Marshal(p.Variants)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal variants for %s: %w", p.ID, err)
	}
	attributes, err = json.Marshal(p.Attributes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal attributes for %s: %w", p.ID, err)
	}
	return variants, attributes, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row *sql.Row) (*model.Product, error) {
	p, err := scanProductRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return p, err
}

func scanProductRow(row rowScanner) (*model.Product, error) {
	var (
		p          model.Product
		source     string
		variants   []byte
		attributes []byte
		synced     sql.NullTime
	)

	err := row.Scan(&p.ID, &p.SellerID, &source, &p.ExternalID, &p.Name,
		&p.SKU, &p.SearchString, &p.ImageURL, &p.Price, &variants,
		&attributes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &synced)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	p.Source = model.SourceKind(source)
	if synced.Valid {
		p.LastSyncedAt = &synced.Time
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variants for %s: %w", p.ID, err)
		}
	}
	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &p.Attributes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attributes for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}
