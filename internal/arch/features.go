package arch

import (
	"fmt"
	"sort"
)

// FeatureKind is one of the input feature sets the engine ships.
type FeatureKind int

const (
	HalfKP FeatureKind = iota
	HalfKPE9
	HalfKPvm
	KP

	featureKindCount
)

// Feature describes how a feature kind appears in a generated header.
type Feature struct {
	Token string

	// Includes are the feature headers, relative to the architectures directory.
	Includes []string

	// RawFeatures is the right-hand side of "using RawFeatures = ...;".
	// Continuation lines are written unindented; the renderer nests them.
	RawFeatures []string
}

var features = [featureKindCount]Feature{
	HalfKP: {
		Token:    "halfkp",
		Includes: []string{"../features/half_kp.h"},
		RawFeatures: []string{
			"Features::FeatureSet<",
			"Features::HalfKP<Features::Side::kFriend>>",
		},
	},
	HalfKPE9: {
		Token:    "halfkpe9",
		Includes: []string{"../features/half_kpe9.h"},
		RawFeatures: []string{
			"Features::FeatureSet<",
			"Features::HalfKPE9<Features::Side::kFriend>>",
		},
	},
	HalfKPvm: {
		Token:    "halfkpvm",
		Includes: []string{"../features/half_kp_vm.h"},
		RawFeatures: []string{
			"Features::FeatureSet<",
			"Features::HalfKP_vm<Features::Side::kFriend>>",
		},
	},
	KP: {
		Token:    "kp",
		Includes: []string{"../features/k.h", "../features/p.h"},
		RawFeatures: []string{
			"Features::FeatureSet<Features::K, Features::P>",
		},
	},
}

// featureByToken is built from features so the two never disagree.
var featureByToken = func() map[string]FeatureKind {
	m := make(map[string]FeatureKind, len(features))
	for k, f := range features {
		m[f.Token] = FeatureKind(k)
	}
	return m
}()

// ParseFeature maps a feature token to its kind.
func ParseFeature(token string) (FeatureKind, error) {
	k, ok := featureByToken[token]
	if !ok {
		return 0, fmt.Errorf("%w: input feature %s is not supported", ErrUnsupportedInputFeature, token)
	}
	return k, nil
}

// Spec returns the header fragments for k.
func (k FeatureKind) Spec() Feature {
	return features[k]
}

// String returns the token used in architecture names.
func (k FeatureKind) String() string {
	if k < 0 || k >= featureKindCount {
		return fmt.Sprintf("FeatureKind(%d)", int(k))
	}
	return features[k].Token
}

// FeatureTokens returns the supported feature tokens, sorted.
func FeatureTokens() []string {
	tokens := make([]string, 0, len(features))
	for _, f := range features {
		tokens = append(tokens, f.Token)
	}
	sort.Strings(tokens)
	return tokens
}
