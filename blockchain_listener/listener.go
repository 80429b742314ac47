package blockchain_listener

import (
	"context"
	"log"
	"time"

	"github.com/ferreirogomes/imofrac/services"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// BlockchainListener observa a Solana para conferir a lei de conservação
// das frações: para cada imóvel, o total emitido on-chain tem que ser
// igual a total_fractions - available_fractions no registro. Divergência
// indica decremento sem emissão (ou o contrário) e é apenas reportada;
// o listener nunca muda estado.
type BlockchainListener struct {
	WSClient   *ws.Client
	Store      services.Store
	Ledger     services.Ledger
	FeePayerPK solana.PublicKey
}

// NewBlockchainListener conecta ao WebSocket da Solana.
func NewBlockchainListener(wsEndpoint string, store services.Store, ledger services.Ledger, feePayerKeyBase58 string) (*BlockchainListener, error) {
	wsClient, err := ws.Connect(context.Background(), wsEndpoint)
	if err != nil {
		return nil, err
	}

	feePayer, err := solana.PrivateKeyFromBase58(feePayerKeyBase58)
	if err != nil {
		return nil, err
	}

	return &BlockchainListener{
		WSClient:   wsClient,
		Store:      store,
		Ledger:     ledger,
		FeePayerPK: feePayer.PublicKey(),
	}, nil
}

// StartListening subscreve aos logs de transações que mencionam o Fee
// Payer (toda criação de mint e emissão passa por ele) e dispara uma
// reconciliação a cada transação finalizada.
func (l *BlockchainListener) StartListening() {
	log.Println("Iniciando listener de reconciliação da blockchain...")

	sub, err := l.WSClient.LogsSubscribeMentions(l.FeePayerPK, rpc.CommitmentFinalized)
	if err != nil {
		log.Printf("Falha ao subscrever aos logs: %v", err)
		return
	}
	defer sub.Unsubscribe()

	for {
		got, err := sub.Recv(context.Background())
		if err != nil {
			log.Printf("Erro ao receber log da Solana: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		if got.Value.Err != nil {
			log.Printf("Transação %s falhou on-chain: %v", got.Value.Signature, got.Value.Err)
			continue
		}

		log.Printf("Transação finalizada (Signature: %s). Reconciliando oferta...", got.Value.Signature)
		l.ReconcileSupply()
	}
}

// ReconcileSupply compara, imóvel a imóvel, a oferta emitida no ledger
// com as frações vendidas segundo o registro.
func (l *BlockchainListener) ReconcileSupply() {
	properties, err := l.Store.ListProperties()
	if err != nil {
		log.Printf("Falha ao listar imóveis para reconciliação: %v", err)
		return
	}

	for _, p := range properties {
		mint, err := solana.PublicKeyFromBase58(p.MintAddress)
		if err != nil {
			log.Printf("Imóvel %d com endereço de Mint inválido: %v", p.ID, err)
			continue
		}

		supply, err := l.Ledger.FractionSupply(mint)
		if err != nil {
			log.Printf("Falha ao consultar oferta do imóvel %d na Solana: %v", p.ID, err)
			continue
		}

		sold := uint64(p.TotalFractions - p.AvailableFractions)
		if supply != sold {
			log.Printf("DIVERGÊNCIA no imóvel %d: registro indica %d frações vendidas, ledger indica %d emitidas", p.ID, sold, supply)
		}
	}
}
