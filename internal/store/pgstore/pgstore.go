package pgstore

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yannisyannis/qr-shopify/internal/model"
	"github.com/yannisyannis/qr-shopify/internal/store"
	"github.com/yannisyannis/qr-shopify/internal/store/config"
)

// Хранилище в Postgres. Альтернатива файловому бэкенду:
// строки долговечны сами по себе, поэтому Flush здесь пустой

type pgstore struct {
	database *sql.DB
}

func NewStore(cfg config.Config) (store.Store, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	// Таблица QR-кодов. Одна строка на заказ, меняется только статус
	_, err = db.Exec(
		"CREATE TABLE IF NOT EXISTS qr_code (" +
			" order_id VARCHAR (64) PRIMARY KEY," +
			" customer_name TEXT NOT NULL," +
			" product_name TEXT NOT NULL," +
			" quantity INTEGER NOT NULL," +
			" status VARCHAR (10) NOT NULL," +
			" qr_code_url TEXT NOT NULL" +
			" );")
	if err != nil {
		return nil, err
	}

	return &pgstore{database: db}, nil
}

func (s *pgstore) Get(ctx context.Context, orderID string) (model.Record, error) {
	row := s.database.QueryRowContext(ctx,
		"SELECT order_id, customer_name, product_name, quantity, status, qr_code_url"+
			" FROM qr_code"+
			" WHERE order_id = $1",
		orderID)

	var record model.Record
	err := row.Scan(&record.OrderID,
		&record.CustomerName,
		&record.ProductName,
		&record.Quantity,
		&record.Status,
		&record.QRCodeURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Record{}, store.ErrNotFound
		}
		return model.Record{}, err
	}
	return record, nil
}

func (s *pgstore) Put(ctx context.Context, record model.Record) error {
	// вставка или перезапись, последняя запись побеждает
	_, err := s.database.ExecContext(ctx,
		"INSERT INTO qr_code (order_id, customer_name, product_name, quantity, status, qr_code_url)"+
			" VALUES ($1, $2, $3, $4, $5, $6)"+
			" ON CONFLICT (order_id) DO UPDATE"+
			" SET customer_name = $2, product_name = $3, quantity = $4, status = $5, qr_code_url = $6",
		record.OrderID,
		record.CustomerName,
		record.ProductName,
		record.Quantity,
		record.Status,
		record.QRCodeURL)
	return err
}

func (s *pgstore) All(ctx context.Context) ([]model.Record, error) {
	rows, err := s.database.QueryContext(ctx,
		"SELECT order_id, customer_name, product_name, quantity, status, qr_code_url"+
			" FROM qr_code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var record model.Record
		err := rows.Scan(&record.OrderID,
			&record.CustomerName,
			&record.ProductName,
			&record.Quantity,
			&record.Status,
			&record.QRCodeURL)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Redeem - условный UPDATE, переход active -> used атомарен на стороне базы
func (s *pgstore) Redeem(ctx context.Context, orderID string) error {
	result, err := s.database.ExecContext(ctx,
		"UPDATE qr_code"+
			" SET status = $1"+
			" WHERE order_id = $2"+
			"   AND status = $3",
		model.StatusUsed,
		orderID,
		model.StatusActive)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// различаем "нет такого заказа" и "уже погашен"
		if _, err := s.Get(ctx, orderID); err != nil {
			return err
		}
		return store.ErrAlreadyRedeemed
	}
	return nil
}

func (s *pgstore) Flush(_ context.Context) error {
	return nil
}

func (s *pgstore) Close(_ context.Context) error {
	return s.database.Close()
}
