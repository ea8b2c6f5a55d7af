package claim

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ToIndex converts the indexer's binary claim representation into the
// hex string-keyed document stored in the search backend. It is the
// forward direction of §4.1's DocumentCodec and is total: every field it
// touches has a defined encoding, including the nullable hash fields.
func ToIndex(doc *BinaryDocument) *IndexedDocument {
	txID, txNout := splitTxoHash(doc.TxoHash)

	out := &IndexedDocument{
		ClaimID:              doc.ClaimHash.String(),
		ChannelID:            idPtrToHex(doc.ChannelHash),
		RepostedClaimID:      idPtrToHex(doc.RepostedClaimHash),
		CensoringChannelHash: idPtrToHex(doc.CensoringChannelHash),

		TxID:   txID,
		TxNout: txNout,

		Signature:       bytesToHexOrNil(doc.Signature),
		SignatureDigest: bytesToHexOrNil(doc.SignatureDigest),
		SignatureValid:  doc.SignatureValid,
		PublicKeyBytes:  bytesToHexOrNil(doc.PublicKeyBytes),
		PublicKeyHash:   bytesToHexOrNil(doc.PublicKeyHash),

		ClaimType:  doc.ClaimType,
		StreamType: doc.StreamType,

		ClaimName:    doc.ClaimName,
		Normalized:   doc.Normalized,
		ShortURL:     doc.ShortURL,
		CanonicalURL: doc.CanonicalURL,

		Height:             doc.Height,
		CreationHeight:     doc.CreationHeight,
		ActivationHeight:   doc.ActivationHeight,
		ExpirationHeight:   doc.ExpirationHeight,
		TxPosition:         doc.TxPosition,
		Timestamp:          doc.Timestamp,
		CreationTimestamp:  doc.CreationTimestamp,
		ReleaseTime:        doc.ReleaseTime,
		LastTakeOverHeight: doc.LastTakeOverHeight,
		ChannelJoin:        doc.ChannelJoin,

		Amount:          doc.Amount,
		EffectiveAmount: doc.EffectiveAmount,
		SupportAmount:   doc.SupportAmount,
		FeeAmount:       doc.FeeAmount,
		FeeCurrency:     doc.FeeCurrency,

		TrendingGroup:  doc.TrendingGroup,
		TrendingMixed:  doc.TrendingMixed,
		TrendingLocal:  doc.TrendingLocal,
		TrendingGlobal: doc.TrendingGlobal,
		Reposted:       doc.Reposted,

		ClaimsInChannel: doc.ClaimsInChannel,

		Title:       doc.Title,
		Author:      doc.Author,
		Description: doc.Description,
		MediaType:   doc.MediaType,
		Tags:        doc.Tags,
		Languages:   doc.Languages,
		Duration:    doc.Duration,

		IsControlling: doc.IsControlling,
		CensorType:    doc.CensorType,
	}
	return out
}

// FromIndex is the inverse of ToIndex: it reconstructs the binary claim
// representation from a document read back out of the search backend.
func FromIndex(doc *IndexedDocument) (*BinaryDocument, error) {
	claimHash, err := IDFromHex(doc.ClaimID)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding claim_id: %w", err)
	}
	channelHash, err := idHexToPtr(doc.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding channel_id: %w", err)
	}
	repostedHash, err := idHexToPtr(doc.RepostedClaimID)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding reposted_claim_id: %w", err)
	}
	censoringHash, err := idHexToPtr(doc.CensoringChannelHash)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding censoring_channel_hash: %w", err)
	}
	txoHash, err := joinTxoHash(doc.TxID, doc.TxNout)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding tx_id: %w", err)
	}
	signature, err := hexPtrToBytes(doc.Signature)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding signature: %w", err)
	}
	signatureDigest, err := hexPtrToBytes(doc.SignatureDigest)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding signature_digest: %w", err)
	}
	publicKeyBytes, err := hexPtrToBytes(doc.PublicKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding public_key_bytes: %w", err)
	}
	publicKeyHash, err := hexPtrToBytes(doc.PublicKeyHash)
	if err != nil {
		return nil, fmt.Errorf("claim: decoding public_key_hash: %w", err)
	}

	return &BinaryDocument{
		ClaimHash:            claimHash,
		ChannelHash:          channelHash,
		RepostedClaimHash:    repostedHash,
		CensoringChannelHash: censoringHash,
		TxoHash:              txoHash,

		Signature:       signature,
		SignatureDigest: signatureDigest,
		SignatureValid:  doc.SignatureValid,
		PublicKeyBytes:  publicKeyBytes,
		PublicKeyHash:   publicKeyHash,

		ClaimType:  doc.ClaimType,
		StreamType: doc.StreamType,

		ClaimName:    doc.ClaimName,
		Normalized:   doc.Normalized,
		ShortURL:     doc.ShortURL,
		CanonicalURL: doc.CanonicalURL,

		Height:             doc.Height,
		CreationHeight:     doc.CreationHeight,
		ActivationHeight:   doc.ActivationHeight,
		ExpirationHeight:   doc.ExpirationHeight,
		TxPosition:         doc.TxPosition,
		Timestamp:          doc.Timestamp,
		CreationTimestamp:  doc.CreationTimestamp,
		ReleaseTime:        doc.ReleaseTime,
		LastTakeOverHeight: doc.LastTakeOverHeight,
		ChannelJoin:        doc.ChannelJoin,

		Amount:          doc.Amount,
		EffectiveAmount: doc.EffectiveAmount,
		SupportAmount:   doc.SupportAmount,
		FeeAmount:       doc.FeeAmount,
		FeeCurrency:     doc.FeeCurrency,

		TrendingGroup:  doc.TrendingGroup,
		TrendingMixed:  doc.TrendingMixed,
		TrendingLocal:  doc.TrendingLocal,
		TrendingGlobal: doc.TrendingGlobal,
		Reposted:       doc.Reposted,

		ClaimsInChannel: doc.ClaimsInChannel,

		Title:       doc.Title,
		Author:      doc.Author,
		Description: doc.Description,
		MediaType:   doc.MediaType,
		Tags:        doc.Tags,
		Languages:   doc.Languages,
		Duration:    doc.Duration,

		IsControlling: doc.IsControlling,
		CensorType:    doc.CensorType,
	}, nil
}

// splitTxoHash breaks the packed 36-byte txo_hash into the reversed-hex
// tx_id (first 32 bytes, chainhash order) and the little-endian tx_nout.
func splitTxoHash(txo [36]byte) (txID string, txNout uint32) {
	var h chainhash.Hash
	copy(h[:], txo[:32])
	return h.String(), binary.LittleEndian.Uint32(txo[32:])
}

// joinTxoHash is the inverse of splitTxoHash.
func joinTxoHash(txID string, txNout uint32) ([36]byte, error) {
	var txo [36]byte
	h, err := chainhash.NewHashFromStr(txID)
	if err != nil {
		return txo, err
	}
	copy(txo[:32], h[:])
	binary.LittleEndian.PutUint32(txo[32:], txNout)
	return txo, nil
}

func idPtrToHex(id *ID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idHexToPtr(s *string) (*ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := IDFromHex(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func bytesToHexOrNil(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := hex.EncodeToString(b)
	return &s
}

func hexPtrToBytes(s *string) ([]byte, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	return hex.DecodeString(*s)
}
