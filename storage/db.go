package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/ferreirogomes/imofrac/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

// DB representa a conexão com o banco de dados PostgreSQL. É a fonte de
// verdade do registro de imóveis: IDs, oferta, preço e status.
type DB struct {
	*sqlx.DB
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	log.Println("Conexão com PostgreSQL estabelecida com sucesso.")

	if err := runMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}

	return &DB{db}, nil
}

// runMigrations executa as migrações usando sql-migrate.
func runMigrations(db *sql.DB) error {
	migrations := &migrate.FileMigrationSource{
		Dir: "./storage/migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		log.Printf("Aplicadas %d migrações ao banco de dados.", n)
	} else {
		log.Println("Nenhuma migração nova para aplicar.")
	}
	return nil
}

// CreateProperty insere um novo imóvel e devolve o ID sequencial
// atribuído. A sequência do Postgres começa em 1 e nunca reutiliza IDs,
// mesmo que um imóvel seja desativado depois.
func (d *DB) CreateProperty(p models.Property) (int64, error) {
	var id int64
	err := d.QueryRow(`
		INSERT INTO properties
			(name, location, total_fractions, price_per_fraction, available_fractions, is_active, mint_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		p.Name, p.Location, p.TotalFractions, p.PricePerFraction,
		p.AvailableFractions, p.IsActive, p.MintAddress, p.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("falha ao salvar imóvel: %w", err)
	}
	return id, nil
}

// GetProperty busca um imóvel pelo ID.
func (d *DB) GetProperty(id int64) (models.Property, bool, error) {
	var p models.Property
	err := d.Get(&p, `SELECT * FROM properties WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, false, nil
	}
	if err != nil {
		return models.Property{}, false, fmt.Errorf("falha ao buscar imóvel: %w", err)
	}
	return p, true, nil
}

// ListProperties devolve todos os imóveis registrados, em ordem de ID.
func (d *DB) ListProperties() ([]models.Property, error) {
	var props []models.Property
	if err := d.Select(&props, `SELECT * FROM properties ORDER BY id`); err != nil {
		return nil, fmt.Errorf("falha ao listar imóveis: %w", err)
	}
	return props, nil
}

// SetPropertyActive ajusta o flag de ativação de um imóvel. Gravar o
// mesmo valor atual é um no-op legítimo.
func (d *DB) SetPropertyActive(id int64, active bool) (models.Property, bool, error) {
	var p models.Property
	err := d.Get(&p, `
		UPDATE properties SET is_active = $1 WHERE id = $2
		RETURNING *`, active, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, false, nil
	}
	if err != nil {
		return models.Property{}, false, fmt.Errorf("falha ao atualizar status do imóvel: %w", err)
	}
	return p, true, nil
}

// PurchaseFractions executa a seção crítica de uma compra: trava a linha
// do imóvel, valida as precondições na ordem do contrato (existência,
// ativação, oferta, pagamento), decrementa as frações disponíveis e
// chama mint dentro da mesma transação. Se qualquer passo falhar, a
// transação inteira é desfeita — o decremento nunca é persistido sem a
// emissão correspondente no ledger.
func (d *DB) PurchaseFractions(propertyID, amount, payment int64, mint models.MintFunc) error {
	tx, err := d.Beginx()
	if err != nil {
		return fmt.Errorf("falha ao abrir transação de compra: %w", err)
	}
	defer tx.Rollback()

	var p models.Property
	err = tx.Get(&p, `SELECT * FROM properties WHERE id = $1 FOR UPDATE`, propertyID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrPropertyNotFound
	}
	if err != nil {
		return fmt.Errorf("falha ao travar registro do imóvel: %w", err)
	}

	if !p.IsActive {
		return models.ErrPropertyInactive
	}
	if amount <= 0 {
		return fmt.Errorf("%w: quantidade de frações deve ser positiva", models.ErrInvalidParameter)
	}
	if amount > p.AvailableFractions {
		return models.ErrInsufficientSupply
	}
	if amount > math.MaxInt64/p.PricePerFraction {
		// Overflow no cálculo do total: falha fechada em vez de aceitar
		// um valor que deu a volta.
		return fmt.Errorf("%w: total da compra excede o limite aritmético", models.ErrInvalidParameter)
	}
	if payment < p.PricePerFraction*amount {
		return models.ErrInsufficientPayment
	}

	if _, err := tx.Exec(`
		UPDATE properties SET available_fractions = available_fractions - $1
		WHERE id = $2`, amount, propertyID); err != nil {
		return fmt.Errorf("falha ao decrementar frações disponíveis: %w", err)
	}

	p.AvailableFractions -= amount
	if err := mint(p); err != nil {
		return fmt.Errorf("falha ao emitir frações no ledger: %w", err)
	}

	return tx.Commit()
}

// SaveUser insere ou atualiza um investidor.
func (d *DB) SaveUser(u models.User) error {
	_, err := d.Exec(`
		INSERT INTO users (id, name, email, solana_pub_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, solana_pub_key = EXCLUDED.solana_pub_key`,
		u.ID, u.Name, u.Email, u.SolanaPubKey, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar usuário: %w", err)
	}
	return nil
}

// GetUser busca um investidor pelo ID.
func (d *DB) GetUser(id string) (models.User, bool, error) {
	var u models.User
	err := d.Get(&u, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("falha ao buscar usuário: %w", err)
	}
	return u, true, nil
}
