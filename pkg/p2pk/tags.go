package p2pk

import "strconv"

// SigFlag selects whether a P2PK witness authorises one input or all
// inputs of a spend jointly.
type SigFlag string

const (
	// SigFlagInputs requires each spent proof to carry its own witness.
	SigFlagInputs SigFlag = "SIG_INPUTS"

	// SigFlagAll authorises every input of a spend with one shared
	// witness, at the signed message form the target mint specifies.
	SigFlagAll SigFlag = "SIG_ALL"
)

const (
	tagKeySigFlag  = "sigflag"
	tagKeyLocktime = "locktime"
	tagKeyPubkeys  = "pubkeys"
	tagKeyNSigs    = "n_sigs"
	tagKeyRefund   = "refund"
)

// SigFlagTag builds the [sigflag, value] tag.
func SigFlagTag(flag SigFlag) Tag {
	return Tag{tagKeySigFlag, string(flag)}
}

// SigFlagOf scans tags for a sigflag entry, defaulting to SIG_INPUTS
// when absent (the Cashu convention for an unspecified flag).
func SigFlagOf(tags []Tag) (SigFlag, error) {
	for _, t := range tags {
		if t[0] != tagKeySigFlag {
			continue
		}
		switch SigFlag(t[1]) {
		case SigFlagInputs, SigFlagAll:
			return SigFlag(t[1]), nil
		default:
			return "", ErrUnknownSigFlag
		}
	}
	return SigFlagInputs, nil
}

// LocktimeTag builds a [locktime, unixSeconds] tag gating the secret to
// a refund path after expiry.
func LocktimeTag(unixSeconds int64) Tag {
	return Tag{tagKeyLocktime, strconv.FormatInt(unixSeconds, 10)}
}

// RefundPubkeyTag names an additional key authorised to spend after
// locktime has passed.
func RefundPubkeyTag(hexPubkey string) Tag {
	return Tag{tagKeyRefund, hexPubkey}
}

// NSigsTag sets the multisig threshold when multiple pubkeys tags are
// present.
func NSigsTag(n int) Tag {
	return Tag{tagKeyNSigs, strconv.Itoa(n)}
}
