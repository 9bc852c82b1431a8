package proof

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/primesearch/goowl/crypto/hash"
	"github.com/primesearch/goowl/gpu"
	"github.com/primesearch/goowl/mersenne"
)

// Proof is a Pietrzak-style proof that B is the PRP residue 3^(2^E) mod
// 2^E-1. A verifier checks it in E/2^power squarings instead of E.
type Proof struct {
	E            uint32
	KnownFactors []string
	B            mersenne.Words
	Middles      []mersenne.Words
}

// Power returns the number of halving rounds in the proof.
func (p *Proof) Power() uint32 {
	return uint32(len(p.Middles))
}

// VerifyResult is the structured outcome of a proof verification.
type VerifyResult struct {
	// Valid is the A == B equality at the end of the halving chain.
	Valid bool
	// IsProbablePrime records whether the proven residue B equals 9, the
	// base-3 PRP signal. The same convention is applied to cofactor runs;
	// the server-side verifier owns the final interpretation per residue
	// type.
	IsProbablePrime bool
}

// ComputeProof folds the persisted checkpoint residues into a proof using
// the engine. The p-th middle is the product of the 2^p residues at the
// odd multiples of span 2^(power-p-1), combined bottom-up by the challenge
// scalars of the earlier rounds. Middles are produced strictly in round
// order since each round's challenge hashes all previous middles.
func (s *Set) ComputeProof(eng gpu.Engine) (*Proof, []uint64, error) {
	b, err := s.Load(s.E)
	if err != nil {
		return nil, nil, errors.Wrap(err, "final PRP residue missing")
	}

	middles := make([]mersenne.Words, 0, s.Power)
	hashes := make([]uint64, 0, s.Power)
	h := hash.Words(s.E, b)

	bufs := eng.MakeBufVector(s.Power)

	for p := uint32(0); p < s.Power; p++ {
		top := 0
		step := uint32(1) << (s.Power - p - 1)
		for i := uint32(0); i < 1<<p; i++ {
			w, err := s.Load(s.points[step*(2*i+1)-1])
			if err != nil {
				return nil, nil, err
			}
			eng.WriteIn(bufs[top], w)
			top++
			// Collapse once per trailing one-bit of i: a binary-tree fold
			// whose leaf order matches the halving decomposition.
			for k := uint32(0); i&(1<<k) != 0; k++ {
				top--
				eng.ExpMulBuf(bufs[top-1], hashes[p-1-k], bufs[top])
			}
		}
		if top != 1 {
			return nil, nil, errors.Errorf("proof fold stack left %d entries at round %d", top, p)
		}
		m := eng.ReadAndCompress(bufs[0])
		if m == nil || m.IsZero() {
			return nil, nil, errors.Errorf("read ZERO during proof generation, E=%d round %d", s.E, p)
		}
		middles = append(middles, m)
		h = hash.WordsPrefix(s.E, h, m)
		hashes = append(hashes, h[0])

		log.WithFields(logrus.Fields{
			"round":  p,
			"middle": fmt.Sprintf("%016x", m.Res64()),
			"hash":   fmt.Sprintf("%016x", h[0]),
		}).Info("Proof middle computed")
	}

	proofsGenerated.Inc()
	return &Proof{E: s.E, KnownFactors: s.KnownFactors, B: b, Middles: middles}, hashes, nil
}

// Verify repeats the halving chain against the engine. When expectedHashes
// is non-empty, each round's challenge must match the recorded one; a
// mismatch rejects the proof without touching the engine further.
func (p *Proof) Verify(eng gpu.Engine, expectedHashes []uint64) (VerifyResult, error) {
	power := p.Power()
	if power == 0 {
		return VerifyResult{}, errors.New("proof has no middles")
	}

	isPrime := p.B.Equal(mersenne.Make(p.E, 9))

	a := mersenne.Make(p.E, 3)
	b := p.B
	h := hash.Words(p.E, b)

	span := p.E
	for i := uint32(0); i < power; i, span = i+1, (span+1)/2 {
		m := p.Middles[i]
		h = hash.WordsPrefix(p.E, h, m)
		challenge := h[0]

		if uint32(len(expectedHashes)) > i && expectedHashes[i] != challenge {
			log.Errorf("Proof round %d: hash expected %016x != %016x", i, expectedHashes[i], challenge)
			proofsRejected.Inc()
			return VerifyResult{}, nil
		}

		doSquareB := span&1 == 1
		b = eng.ExpMul(m, challenge, b, doSquareB)
		a = eng.ExpMul(a, challenge, m, false)
	}

	log.Infof("Proof verification: doing %d iterations", span)
	a = eng.ExpExp2(a, span)

	if !a.Equal(b) {
		log.Errorf("Proof invalid: %016x expected %016x", a.Res64(), b.Res64())
		proofsRejected.Inc()
		return VerifyResult{}, nil
	}
	log.WithFields(logrus.Fields{
		"exponent": p.E,
		"result":   map[bool]string{true: "probable prime", false: "composite"}[isPrime],
	}).Info("Proof verified")
	proofsVerified.Inc()
	return VerifyResult{Valid: true, IsProbablePrime: isPrime}, nil
}
