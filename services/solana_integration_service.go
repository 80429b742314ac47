package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaIntegrationService é o ledger de propriedade das frações. Cada
// imóvel ganha um Mint SPL próprio (decimals = 0): frações do mesmo
// imóvel são fungíveis entre si, frações de imóveis diferentes não.
// O FeePayer é a autoridade de mint e paga as taxas de rede.
type SolanaIntegrationService struct {
	RPCClient *rpc.Client
	FeePayer  solana.PrivateKey
}

// NewSolanaIntegrationService conecta ao RPC da Solana e carrega a chave
// do Fee Payer.
func NewSolanaIntegrationService(rpcEndpoint, feePayerKeyBase58 string) (*SolanaIntegrationService, error) {
	feePayer, err := solana.PrivateKeyFromBase58(feePayerKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar chave privada do Fee Payer: %w", err)
	}

	return &SolanaIntegrationService{
		RPCClient: rpc.New(rpcEndpoint),
		FeePayer:  feePayer,
	}, nil
}

// CreateAssetMint cria o Mint SPL que representa as frações de um novo
// imóvel. O FeePayer fica como autoridade de mint e freeze.
func (s *SolanaIntegrationService) CreateAssetMint(propertyName string) (solana.PublicKey, error) {
	ctx := context.Background()
	mintAccount := solana.NewWallet()

	rent, err := s.RPCClient.GetMinimumBalanceForRentExemption(ctx, token.MINT_SIZE, rpc.CommitmentFinalized)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao obter rent mínimo para o Mint: %w", err)
	}

	resp, err := s.RPCClient.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewCreateAccountInstruction(
				rent,
				token.MINT_SIZE,
				token.ProgramID,
				s.FeePayer.PublicKey(),
				mintAccount.PublicKey(),
			).Build(),
			token.NewInitializeMintInstruction(
				0, // frações são unidades inteiras
				s.FeePayer.PublicKey(),
				s.FeePayer.PublicKey(),
				mintAccount.PublicKey(),
				solana.SysVarRentPubkey,
			).Build(),
		},
		resp.Value.Blockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()),
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao criar transação de Mint: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		if key.Equals(mintAccount.PublicKey()) {
			return &mintAccount.PrivateKey
		}
		return nil
	})
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao assinar transação de Mint: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao enviar transação de Mint: %w", err)
	}
	log.Printf("Mint criado para o imóvel %q: %s (tx %s)", propertyName, mintAccount.PublicKey(), txID)

	return mintAccount.PublicKey(), nil
}

// MintFractions emite frações para a carteira do comprador. Se a conta
// de token associada (ATA) do comprador ainda não existe, a transação
// inclui a instrução de criação, paga pelo FeePayer.
func (s *SolanaIntegrationService) MintFractions(mint, owner solana.PublicKey, amount uint64) (solana.Signature, error) {
	ctx := context.Background()

	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao derivar ATA do comprador: %w", err)
	}

	var instructions []solana.Instruction
	if _, err := s.RPCClient.GetAccountInfo(ctx, ata); err != nil {
		// ATA ainda não existe na rede; cria junto com o mint.
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(
				s.FeePayer.PublicKey(),
				owner,
				mint,
			).Build(),
		)
	}
	instructions = append(instructions,
		token.NewMintToInstruction(
			amount,
			mint,
			ata,
			s.FeePayer.PublicKey(),
			nil,
		).Build(),
	)

	resp, err := s.RPCClient.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, resp.Value.Blockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao criar transação de emissão: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao assinar transação de emissão: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao enviar transação de emissão: %w", err)
	}
	log.Printf("Emitidas %d frações (mint %s) para %s: tx %s", amount, mint, owner, txID)

	return txID, nil
}

// FractionBalance consulta quantas frações de um imóvel a carteira do
// investidor possui. A contabilidade nunca lê esse saldo; a consulta
// existe para os endpoints de leitura.
func (s *SolanaIntegrationService) FractionBalance(mint, owner solana.PublicKey) (uint64, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return 0, fmt.Errorf("falha ao derivar ATA do investidor: %w", err)
	}

	resp, err := s.RPCClient.GetTokenAccountBalance(context.Background(), ata, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar saldo de frações: %w", err)
	}

	balance, err := strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("saldo de frações inválido na resposta da Solana: %w", err)
	}
	return balance, nil
}

// FractionSupply consulta o total de frações já emitidas de um Mint.
func (s *SolanaIntegrationService) FractionSupply(mint solana.PublicKey) (uint64, error) {
	resp, err := s.RPCClient.GetTokenSupply(context.Background(), mint, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("falha ao consultar oferta emitida: %w", err)
	}

	supply, err := strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("oferta emitida inválida na resposta da Solana: %w", err)
	}
	return supply, nil
}
