package validator_test

import (
	"reflect"
	"testing"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/cashtokens/cashtokend/domain/tokenengine/ruleerrors"
	"github.com/cashtokens/cashtokend/domain/tokenengine/utils/constants"
	"github.com/cashtokens/cashtokend/domain/tokenengine/validator"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func testTransactionID(firstByte byte) externalapi.TransactionID {
	idBytes := [externalapi.TransactionIDSize]byte{}
	idBytes[0] = firstByte
	return *externalapi.NewTransactionIDFromByteArray(&idBytes)
}

func testCategory(firstByte byte) externalapi.TokenCategoryID {
	categoryBytes := [externalapi.TokenCategoryIDSize]byte{}
	categoryBytes[0] = firstByte
	return *externalapi.NewTokenCategoryIDFromByteArray(&categoryBytes)
}

func nft(capability externalapi.TokenCapability, commitment ...byte) *externalapi.TokenNFT {
	return &externalapi.TokenNFT{Capability: capability, Commitment: commitment}
}

func tokenInput(token *externalapi.TokenData) *externalapi.DomainTransactionInput {
	return &externalapi.DomainTransactionInput{
		PreviousOutpoint: externalapi.DomainOutpoint{TransactionID: testTransactionID(0xee)},
		UTXOEntry:        &externalapi.UTXOEntry{Amount: 10_000, Token: token},
	}
}

func tokenOutput(token *externalapi.TokenData) *externalapi.DomainTransactionOutput {
	return &externalapi.DomainTransactionOutput{Value: 10_000, Token: token}
}

func newTestValidator(t *testing.T) *validator.Validator {
	engine, err := validator.New(nil)
	if err != nil {
		t.Fatalf("validator.New: %+v", err)
	}
	return engine
}

func checkAccepted(t *testing.T, report *validator.VerdictReport, name string) {
	t.Helper()
	if !report.Accepted {
		t.Fatalf("%s: expected acceptance, got violations: %s", name, spew.Sdump(report.Violations))
	}
}

func TestValidate_SupplyConservation(t *testing.T) {
	engine := newTestValidator(t)
	category := testCategory(0x0c)

	transfer := &externalapi.DomainTransaction{
		ID: testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(&externalapi.TokenData{Category: category, Amount: 70}),
			tokenInput(&externalapi.TokenData{Category: category, Amount: 30}),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			tokenOutput(&externalapi.TokenData{Category: category, Amount: 100}),
		},
	}
	checkAccepted(t, engine.Validate(transfer), "pure transfer")

	inflation := transfer.Clone()
	inflation.Outputs[0].Token.Amount = 101
	report := engine.Validate(inflation)
	if report.Accepted {
		t.Fatal("inflation without authority was accepted")
	}
	var violation ruleerrors.SupplyConservationError
	if !errors.As(report.Violations[0], &violation) {
		t.Fatalf("expected a SupplyConservationError, got: %+v", report.Violations[0])
	}
	if violation.InputSum != 100 || violation.OutputSum != 101 {
		t.Fatalf("violation carries sums %d/%d, expected 100/101", violation.InputSum, violation.OutputSum)
	}
}

func TestValidate_GenesisException(t *testing.T) {
	engine := newTestValidator(t)
	transactionID := testTransactionID(0x42)
	genesisCategory := *externalapi.NewTokenCategoryIDFromTransactionID(&transactionID)

	genesis := &externalapi.DomainTransaction{
		ID: transactionID,
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(nil),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			tokenOutput(&externalapi.TokenData{
				Category: genesisCategory,
				Amount:   21_000_000,
				NFT:      nft(externalapi.CapabilityMinting),
			}),
		},
	}
	checkAccepted(t, engine.Validate(genesis), "genesis")
}

func TestValidate_MintingException(t *testing.T) {
	engine := newTestValidator(t)
	category := testCategory(0x0d)

	mint := &externalapi.DomainTransaction{
		ID: testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityMinting, 1)}),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			tokenOutput(&externalapi.TokenData{Category: category, Amount: 500}),
			tokenOutput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityNone, 7)}),
			tokenOutput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityNone, 7)}),
		},
	}
	// The minting NFT itself doesn't reappear; that's legal and reported
	// as a burn, not a violation.
	report := engine.Validate(mint)
	checkAccepted(t, report, "mint")
	burn, ok := report.Burns[category]
	if !ok {
		t.Fatal("the unreproduced minting NFT was not reported as burned")
	}
	if len(burn.NFTsBurned) != 1 || burn.NFTsBurned[0].Capability != externalapi.CapabilityMinting {
		t.Fatalf("unexpected burn record: %s", spew.Sdump(burn))
	}
}

func TestValidate_ImmutableMatching(t *testing.T) {
	engine := newTestValidator(t)
	category := testCategory(0x0e)

	base := &externalapi.DomainTransaction{
		ID: testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityNone, 0xaa)}),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			tokenOutput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityNone, 0xaa)}),
		},
	}
	checkAccepted(t, engine.Validate(base), "unchanged immutable NFT")

	mutated := base.Clone()
	mutated.Outputs[0].Token.NFT.Commitment = []byte{0xab}
	if engine.Validate(mutated).Accepted {
		t.Fatal("a mutated immutable NFT was accepted")
	}

	duplicated := base.Clone()
	duplicated.Outputs = append(duplicated.Outputs,
		tokenOutput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityNone, 0xaa)}))
	if engine.Validate(duplicated).Accepted {
		t.Fatal("two outputs claiming a single immutable NFT were accepted")
	}
}

func TestValidate_MutableSingleOutput(t *testing.T) {
	engine := newTestValidator(t)
	category := testCategory(0x0f)

	rewrite := &externalapi.DomainTransaction{
		ID: testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityMutable, 0xaa)}),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			tokenOutput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityMutable, 0xcc)}),
		},
	}
	checkAccepted(t, engine.Validate(rewrite), "mutable rewrite")

	twoOutputs := rewrite.Clone()
	twoOutputs.Outputs = append(twoOutputs.Outputs,
		tokenOutput(&externalapi.TokenData{Category: category, NFT: nft(externalapi.CapabilityNone, 0xdd)}))
	if engine.Validate(twoOutputs).Accepted {
		t.Fatal("two outputs under a single mutable authority were accepted")
	}

	escalation := rewrite.Clone()
	escalation.Outputs[0].Token.NFT.Capability = externalapi.CapabilityMinting
	report := engine.Validate(escalation)
	if report.Accepted {
		t.Fatal("an escalation from mutable to minting was accepted")
	}
	var violation ruleerrors.CapabilityViolationError
	if !errors.As(report.Violations[0], &violation) {
		t.Fatalf("expected a CapabilityViolationError, got: %+v", report.Violations[0])
	}
	if violation.Reason != ruleerrors.ReasonMutableAuthorityExceeded {
		t.Fatalf("unexpected violation reason: %s", violation.Reason)
	}
}

func TestValidate_BurnVisibility(t *testing.T) {
	engine := newTestValidator(t)
	category := testCategory(0x10)

	partialBurn := &externalapi.DomainTransaction{
		ID: testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(&externalapi.TokenData{Category: category, Amount: 100}),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			tokenOutput(&externalapi.TokenData{Category: category, Amount: 60}),
		},
	}
	report := engine.Validate(partialBurn)
	checkAccepted(t, report, "partial burn")
	burn, ok := report.Burns[category]
	if !ok {
		t.Fatal("a partial burn was not reported")
	}
	if burn.AmountBurned != 40 {
		t.Fatalf("expected an amount burn of 40, got %d", burn.AmountBurned)
	}

	// A category fully reproduced must not appear in the burn report.
	transfer := partialBurn.Clone()
	transfer.Outputs[0].Token.Amount = 100
	report = engine.Validate(transfer)
	checkAccepted(t, report, "full transfer")
	if len(report.Burns) != 0 {
		t.Fatalf("a full transfer reported burns: %s", spew.Sdump(report.Burns))
	}
}

func TestValidate_PhantomRejection(t *testing.T) {
	engine := newTestValidator(t)
	phantomCategory := testCategory(0x66)

	phantom := &externalapi.DomainTransaction{
		ID: testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(nil),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			tokenOutput(&externalapi.TokenData{Category: phantomCategory, Amount: 1}),
		},
	}
	report := engine.Validate(phantom)
	if report.Accepted {
		t.Fatal("a phantom category was accepted")
	}
	var violation ruleerrors.UnknownCategoryError
	if !errors.As(report.Violations[0], &violation) {
		t.Fatalf("expected an UnknownCategoryError, got: %+v", report.Violations[0])
	}
	if !violation.Category.Equal(&phantomCategory) {
		t.Fatalf("violation names category %s, expected %s", violation.Category, phantomCategory)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	engine := newTestValidator(t)
	categoryOne := testCategory(0x01)
	categoryTwo := testCategory(0x02)
	phantomCategory := testCategory(0x03)

	tx := &externalapi.DomainTransaction{
		ID: testTransactionID(0x0a),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(&externalapi.TokenData{Category: categoryOne, Amount: 10}),
			tokenInput(&externalapi.TokenData{Category: categoryTwo, NFT: nft(externalapi.CapabilityNone, 1)}),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			// Inflates categoryOne.
			tokenOutput(&externalapi.TokenData{Category: categoryOne, Amount: 11}),
			// Fabricates an NFT for categoryTwo.
			tokenOutput(&externalapi.TokenData{Category: categoryTwo, NFT: nft(externalapi.CapabilityNone, 2)}),
			// References a category with no provenance at all.
			tokenOutput(&externalapi.TokenData{Category: phantomCategory, Amount: 1}),
		},
	}

	report := engine.Validate(tx)
	if report.Accepted {
		t.Fatal("a transaction violating three categories was accepted")
	}
	if len(report.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %s", len(report.Violations), spew.Sdump(report.Violations))
	}

	// Per-category violations are listed in ascending category byte order.
	var supplyViolation ruleerrors.SupplyConservationError
	if !errors.As(report.Violations[0], &supplyViolation) {
		t.Fatalf("expected the first violation to be a SupplyConservationError, got: %+v", report.Violations[0])
	}
	var capabilityViolation ruleerrors.CapabilityViolationError
	if !errors.As(report.Violations[1], &capabilityViolation) {
		t.Fatalf("expected the second violation to be a CapabilityViolationError, got: %+v", report.Violations[1])
	}
	var unknownViolation ruleerrors.UnknownCategoryError
	if !errors.As(report.Violations[2], &unknownViolation) {
		t.Fatalf("expected the third violation to be an UnknownCategoryError, got: %+v", report.Violations[2])
	}
}

func TestValidate_WellFormedness(t *testing.T) {
	engine := newTestValidator(t)
	category := testCategory(0x20)

	tests := []struct {
		name  string
		token *externalapi.TokenData
	}{
		{
			name:  "commitment too long",
			token: &externalapi.TokenData{Category: category, NFT: &externalapi.TokenNFT{Commitment: make([]byte, constants.DefaultMaxCommitmentLength+1)}},
		},
		{
			name:  "amount above the maximum",
			token: &externalapi.TokenData{Category: category, Amount: constants.MaxTokenAmount + 1},
		},
		{
			name:  "undefined capability byte",
			token: &externalapi.TokenData{Category: category, NFT: &externalapi.TokenNFT{Capability: externalapi.TokenCapability(9)}},
		},
		{
			name:  "token with neither amount nor NFT",
			token: &externalapi.TokenData{Category: category},
		},
	}

	for _, test := range tests {
		tx := &externalapi.DomainTransaction{
			ID: testTransactionID(0x01),
			Inputs: []*externalapi.DomainTransactionInput{
				tokenInput(test.token),
			},
		}
		report := engine.Validate(tx)
		if report.Accepted {
			t.Fatalf("%s: a malformed token was accepted", test.name)
		}
		var violation ruleerrors.TokenFormatError
		if !errors.As(report.Violations[0], &violation) {
			t.Fatalf("%s: expected a TokenFormatError, got: %+v", test.name, report.Violations[0])
		}
		if violation.Field != "input 0" {
			t.Fatalf("%s: violation names field %q, expected %q", test.name, violation.Field, "input 0")
		}
	}

	unresolved := &externalapi.DomainTransaction{
		ID:     testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{{}},
	}
	report := engine.Validate(unresolved)
	if report.Accepted {
		t.Fatal("an input without a resolved previous output was accepted")
	}
}

func TestValidate_Idempotence(t *testing.T) {
	engine := newTestValidator(t)
	category := testCategory(0x30)

	tx := &externalapi.DomainTransaction{
		ID: testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(&externalapi.TokenData{Category: category, Amount: 100, NFT: nft(externalapi.CapabilityNone, 1)}),
			tokenInput(&externalapi.TokenData{Category: testCategory(0x31), Amount: 7}),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			tokenOutput(&externalapi.TokenData{Category: category, Amount: 60}),
			tokenOutput(&externalapi.TokenData{Category: testCategory(0x31), Amount: 8}),
		},
	}

	first := engine.Validate(tx)
	second := engine.Validate(tx)

	if first.Accepted != second.Accepted {
		t.Fatal("two validations of the same transaction disagree on acceptance")
	}
	if len(first.Violations) != len(second.Violations) {
		t.Fatal("two validations of the same transaction disagree on violation count")
	}
	for i := range first.Violations {
		if first.Violations[i].Error() != second.Violations[i].Error() {
			t.Fatalf("violation #%d differs between validations:\n%s\n%s",
				i, first.Violations[i], second.Violations[i])
		}
	}
	if !reflect.DeepEqual(first.Burns, second.Burns) {
		t.Fatalf("burn reports differ between validations:\n%s\n%s",
			spew.Sdump(first.Burns), spew.Sdump(second.Burns))
	}
	if !reflect.DeepEqual(first.Warnings, second.Warnings) {
		t.Fatal("warnings differ between validations")
	}
}

func TestValidate_DustWarning(t *testing.T) {
	engine := newTestValidator(t)
	category := testCategory(0x40)

	tx := &externalapi.DomainTransaction{
		ID: testTransactionID(0x01),
		Inputs: []*externalapi.DomainTransactionInput{
			tokenInput(&externalapi.TokenData{Category: category, Amount: 5}),
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			{Value: 100, Token: &externalapi.TokenData{Category: category, Amount: 5}},
		},
	}
	report := engine.Validate(tx)
	checkAccepted(t, report, "dust output")
	if len(report.Warnings) != 1 {
		t.Fatalf("expected 1 dust warning, got %d", len(report.Warnings))
	}
}

func TestNew_ConfigValidation(t *testing.T) {
	_, err := validator.New(&validator.Config{MaxCommitmentLength: -1, MaxAmount: 1})
	if err == nil {
		t.Fatal("a negative MaxCommitmentLength was accepted")
	}
	_, err = validator.New(&validator.Config{MaxCommitmentLength: 40, MaxAmount: 0})
	if err == nil {
		t.Fatal("a zero MaxAmount was accepted")
	}
	_, err = validator.New(&validator.Config{MaxCommitmentLength: 40, MaxAmount: constants.MaxTokenAmount + 1})
	if err == nil {
		t.Fatal("a MaxAmount above the protocol maximum was accepted")
	}

	engine, err := validator.New(&validator.Config{MaxCommitmentLength: 0, MaxAmount: 1, DustThreshold: 0})
	if err != nil {
		t.Fatalf("a restrictive but coherent config was rejected: %+v", err)
	}
	if engine == nil {
		t.Fatal("validator.New returned a nil engine without an error")
	}
}
