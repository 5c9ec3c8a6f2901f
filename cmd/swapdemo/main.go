// swapdemo illustrates a single-process cross-mint atomic swap: it
// funds a keypair on each of two mints via a paid Lightning quote, then
// drives pkg/swap.Coordinator through all seven steps of a
// broker-knows-t swap between them, logging each transition.
//
// Usage:
//
//	swapdemo -source-mint <url> -target-mint <url> -amount <sats>
//
// Both mints must already be reachable and accept bolt11 mint quotes;
// swapdemo prints the Lightning invoice for each side and waits for it
// to be paid before continuing.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/pion/logging"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/mintclient"
	"github.com/backkem/ecashswap/pkg/registry"
	"github.com/backkem/ecashswap/pkg/swap"
	"github.com/backkem/ecashswap/pkg/token"
)

func main() {
	sourceMint := flag.String("source-mint", "", "base URL of the mint the initiator holds funds on")
	targetMint := flag.String("target-mint", "", "base URL of the mint the responder holds funds on")
	amount := flag.Uint64("amount", 100, "amount in the mints' unit to swap each way")
	unit := flag.String("unit", "sat", "mint unit")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline for funding and running the swap")
	flag.Parse()

	if *sourceMint == "" || *targetMint == "" {
		log.Fatal("swapdemo: -source-mint and -target-mint are required")
	}

	loggerFactory := logging.NewDefaultLoggerFactory()
	logger := loggerFactory.NewLogger("swapdemo")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, logger, *sourceMint, *targetMint, *unit, *amount); err != nil {
		logger.Errorf("swap failed: %v", err)
		log.Fatal(err)
	}
	logger.Info("swap completed")
}

func run(ctx context.Context, logger logging.LeveledLogger, sourceMintURL, targetMintURL, unit string, amount uint64) error {
	reg := registry.New(nil)
	sourceInfo, err := reg.Refresh(ctx, sourceMintURL)
	if err != nil {
		return err
	}
	targetInfo, err := reg.Refresh(ctx, targetMintURL)
	if err != nil {
		return err
	}
	logger.Infof("discovered %q and %q", sourceInfo.Info.Name, targetInfo.Info.Name)

	initiatorEngine := token.NewEngine(mintclient.New(mintclient.Config{BaseURL: sourceMintURL}))
	responderEngine := token.NewEngine(mintclient.New(mintclient.Config{BaseURL: targetMintURL}))

	initiatorKP, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	initiatorPriv, initiatorPub := crypto.Canonicalize(initiatorKP.Private)

	responderKP, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	responderPriv, responderPub := crypto.Canonicalize(responderKP.Private)

	initiatorInputs, err := fund(ctx, logger, initiatorEngine, &sourceInfo.Keyset, amount, unit, "initiator")
	if err != nil {
		return err
	}
	responderInputs, err := fund(ctx, logger, responderEngine, &targetInfo.Keyset, amount, unit, "responder")
	if err != nil {
		return err
	}

	cfg := swap.Config{
		Initiator:  swap.Party{Pubkey: initiatorPub, Privkey: initiatorPriv, MintURL: sourceMintURL, Amount: amount},
		Responder:  swap.Party{Pubkey: responderPub, Privkey: responderPriv, MintURL: targetMintURL, Amount: amount},
		RevealMode: swap.BrokerKnowsT,
	}

	coord := swap.NewResponder(cfg)

	go func() {
		for ev := range coord.Events() {
			logger.Infof("swap event: %s", ev.Type)
		}
	}()

	if _, err := coord.Initialise(); err != nil {
		return err
	}
	if err := coord.CreateSecrets(ctx, initiatorEngine, initiatorInputs, &sourceInfo.Keyset, responderEngine, responderInputs, &targetInfo.Keyset); err != nil {
		return err
	}
	if err := coord.CreateAdaptorSignatures(); err != nil {
		return err
	}
	if err := coord.VerifyAdaptorSignatures(); err != nil {
		return err
	}

	// The responder claims the initiator's locked proofs on the
	// initiator's (source) mint; the initiator later claims the
	// responder's locked proofs on the responder's (target) mint.
	sourceClient := mintclient.New(mintclient.Config{BaseURL: sourceMintURL})
	responderClaimEngine := token.NewEngine(sourceClient)
	responderOut, err := coord.ResponderClaim(ctx, responderClaimEngine, &sourceInfo.Keyset, nil)
	if err != nil {
		return err
	}
	logger.Infof("responder claimed %d proofs on %s", len(responderOut), sourceMintURL)

	if _, err := coord.ExtractSecret(ctx, sourceClient); err != nil {
		return err
	}

	initiatorClaimEngine := token.NewEngine(mintclient.New(mintclient.Config{BaseURL: targetMintURL}))
	initiatorOut, err := coord.InitiatorClaim(ctx, initiatorClaimEngine, &targetInfo.Keyset, nil)
	if err != nil {
		return err
	}
	logger.Infof("initiator claimed %d proofs on %s", len(initiatorOut), targetMintURL)

	return nil
}

// fund pays a fresh mint quote for amount and returns the resulting
// anyone-can-spend proofs, printing the invoice for the operator to
// settle out of band.
func fund(ctx context.Context, logger logging.LeveledLogger, engine *token.Engine, keyset *mintapi.Keyset, amount uint64, unit, label string) ([]mintapi.Proof, error) {
	quote, err := engine.RequestMintQuote(ctx, amount, unit)
	if err != nil {
		return nil, err
	}
	logger.Infof("%s: pay invoice to mint %d %s: %s", label, amount, unit, quote.Request)

	if err := engine.WaitForQuotePaid(ctx, quote.Quote, 0); err != nil {
		return nil, err
	}

	return engine.MintTokens(ctx, quote.Quote, amount, keyset, nil, nil)
}
