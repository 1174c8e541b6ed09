package transaction

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	testAddressBytes = []byte{
		16, 234, 195, 243, 10, 162, 72, 149, 8, 200, 110, 176, 147, 40, 255, 138,
		84, 117, 249, 254, 92, 148, 88, 204, 60, 112, 149, 111, 207, 203, 34, 191,
	}
	testSchedule = []types.ScheduledTransfer{
		{Timestamp: 123456, Amount: 23},
		{Timestamp: 234456, Amount: 1234},
	}
	scheduleBytes = []byte{
		2,
		0, 0, 0, 0, 0, 1, 226, 64, 0, 0, 0, 0, 0, 0, 0, 23,
		0, 0, 0, 0, 0, 3, 147, 216, 0, 0, 0, 0, 0, 0, 4, 210,
	}
)

func testAddress(t *testing.T) types.AccountAddress {
	addr, err := types.AccountAddressFromBase58("35CJPZohio6Ztii2zy1AYzJKvuxbGG44wrBn7hLHiYLoF2nxnh")
	require.NoError(t, err)
	return addr
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

type payloadVector struct {
	name     string
	payload  Payload
	expected []byte
}

func payloadVectors(t *testing.T) []payloadVector {
	addr := testAddress(t)

	modRef, err := types.ModuleReferenceFromHex(
		"c14efbca1dcf314c73cc294cbbf1bd63e3906b20d35442943eb92f52e383fc38",
	)
	require.NoError(t, err)
	initName, err := types.NewInitName("init_test")
	require.NoError(t, err)
	receiveName, err := types.NewReceiveName("test.function")
	require.NoError(t, err)
	param, err := types.NewParameter([]byte{123, 23, 12, 45, 56})
	require.NoError(t, err)

	credID, err := types.CredentialRegistrationIDFromHex(
		"a5727a5f217a0abaa6bba7f6037478051a49d5011e045eb0d86fce393e0c7b4a96382c60e09a489ebb6d800dc0d88d05",
	)
	require.NoError(t, err)
	verifyKey, err := types.VerifyKeyFromHex(
		"d684ac5fd786d33c82701ce9f05017bb6f3114bec77c0e836e7d5c211de9acc6",
	)
	require.NoError(t, err)

	return []payloadVector{
		{
			name: "deploy module",
			payload: DeployModule{types.WasmModule{
				Version: types.WasmV1, Source: []byte{1, 2, 3, 50},
			}},
			expected: []byte{0, 0, 0, 0, 1, 0, 0, 0, 4, 1, 2, 3, 50},
		},
		{
			name:    "init contract",
			payload: InitContract{1234, modRef, initName, param},
			expected: concat(
				[]byte{1, 0, 0, 0, 0, 0, 0, 4, 210},
				modRef[:],
				[]byte{0, 9}, []byte("init_test"),
				[]byte{0, 5, 123, 23, 12, 45, 56},
			),
		},
		{
			name: "update contract",
			payload: UpdateContract{
				4321, types.ContractAddress{Index: 123}, receiveName, param,
			},
			expected: concat(
				[]byte{2, 0, 0, 0, 0, 0, 0, 16, 225},
				[]byte{0, 0, 0, 0, 0, 0, 0, 123, 0, 0, 0, 0, 0, 0, 0, 0},
				[]byte{0, 13}, []byte("test.function"),
				[]byte{0, 5, 123, 23, 12, 45, 56},
			),
		},
		{
			name:     "transfer",
			payload:  Transfer{addr, 100, fn.None[types.Memo]()},
			expected: concat([]byte{3}, testAddressBytes, []byte{0, 0, 0, 0, 0, 0, 0, 100}),
		},
		{
			name:    "transfer with memo",
			payload: Transfer{addr, 100, fn.Some(types.Memo{0, 23, 55})},
			expected: concat(
				[]byte{22}, testAddressBytes, []byte{0, 3, 0, 23, 55},
				[]byte{0, 0, 0, 0, 0, 0, 0, 100},
			),
		},
		{
			name:     "transfer with schedule",
			payload:  TransferWithSchedule{addr, testSchedule, fn.None[types.Memo]()},
			expected: concat([]byte{19}, testAddressBytes, scheduleBytes),
		},
		{
			name: "transfer with schedule and memo",
			payload: TransferWithSchedule{
				addr, testSchedule, fn.Some(types.Memo{1, 2, 3, 4}),
			},
			expected: concat(
				[]byte{24}, testAddressBytes, []byte{0, 4, 1, 2, 3, 4}, scheduleBytes,
			),
		},
		{
			name: "update credential keys",
			payload: UpdateCredentialKeys{credID, types.CredentialPublicKeys{
				Keys:      map[types.KeyIndex]types.VerifyKey{2: verifyKey},
				Threshold: 1,
			}},
			expected: concat(
				[]byte{13}, credID[:], []byte{1, 2, 0}, verifyKey.Key, []byte{1},
			),
		},
		{
			name:     "register data",
			payload:  RegisterData{types.RegisteredData{123, 231, 222, 0, 1, 2}},
			expected: []byte{21, 0, 6, 123, 231, 222, 0, 1, 2},
		},
	}
}

func TestPayloadVectors(t *testing.T) {
	for _, tt := range payloadVectors(t) {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, serial.Serialize(tt.payload))
			require.Equal(t, uint8(tt.payload.Type()), tt.expected[0])

			decoded, err := DecodePayload(tt.expected)
			require.NoError(t, err)
			require.Equal(t, tt.payload, decoded)
		})
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	for _, tt := range payloadVectors(t) {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			for cut := 0; cut < len(tt.expected); cut++ {
				_, err := DecodePayload(tt.expected[:cut])
				require.ErrorIs(t, err, serial.ErrInsufficientData, "cut at %d", cut)

				var decodeErr *serial.DecodeError
				require.True(t, errors.As(err, &decodeErr))
			}

			_, err := DecodePayload(append(tt.expected, 0))
			require.ErrorIs(t, err, serial.ErrTrailingData)
		})
	}
}

func TestDecodeOversizedRegisterData(t *testing.T) {
	buf := serial.NewBuffer()
	buf.PutUint8(uint8(TypeRegisterData))
	buf.PutPrefixedBytes(serial.Width16, make([]byte, types.RegisteredDataMaxSize+1))

	_, err := DecodePayload(buf.Bytes())
	var decodeErr *serial.DecodeError
	require.True(t, errors.As(err, &decodeErr))

	prepared := NewRegisterData(
		testAddress(t), types.RegisteredDataUnchecked(make([]byte, types.RegisteredDataMaxSize+1)),
	).Prepare(1, 2, 1)
	_, err = prepared.DecodedPayload()
	require.True(t, errors.As(err, &decodeErr))
}

func TestDecodeUnknownTag(t *testing.T) {
	for _, tag := range []byte{4, 18, 20, 23, 99, 255} {
		_, err := DecodePayload([]byte{tag, 0, 0, 0})

		var tagErr *UnknownTagError
		require.True(t, errors.As(err, &tagErr))
		require.Equal(t, tag, tagErr.Tag)
	}

	c := serial.NewCursor([]byte{99})
	_, ok := serial.Get(ReadPayload(c))
	require.False(t, ok)
	require.Equal(t, 0, c.Offset())
}

func TestPrepare(t *testing.T) {
	sender := testAddress(t)
	receiver := sender.Alias(1)

	t.Run("transfer energy", func(t *testing.T) {
		tx := NewTransfer(sender, receiver, 100)
		prepared := tx.Prepare(7, 1700000000, 1)

		payloadSize := 1 + 32 + 8
		require.Len(t, prepared.Payload, payloadSize)
		require.Equal(t, uint32(payloadSize), prepared.Header.PayloadSize)
		require.Equal(t,
			types.Energy(HeaderSize+payloadSize)+100+300,
			prepared.Header.MaxEnergy,
		)
		require.Equal(t, types.SequenceNumber(7), prepared.Header.SequenceNumber)
		require.Equal(t, types.TransactionTime(1700000000), prepared.Header.Expiry)
	})

	t.Run("memo adds only its size", func(t *testing.T) {
		plain := NewTransfer(sender, receiver, 100).Prepare(1, 0, 2)
		memo := NewTransferWithMemo(sender, receiver, 100, types.Memo{0, 23, 55}).
			Prepare(1, 0, 2)
		require.Equal(t,
			plain.Header.MaxEnergy+5,
			memo.Header.MaxEnergy,
		)
	})

	t.Run("execution energy", func(t *testing.T) {
		tx, err := NewTransferWithSchedule(sender, receiver, testSchedule)
		require.NoError(t, err)
		require.Equal(t, 2*ScheduledReleaseCost, tx.Energy)

		deploy := NewDeployModule(sender, types.WasmModule{
			Version: types.WasmV1, Source: make([]byte, 1234),
		})
		require.Equal(t, types.Energy(123), deploy.Energy)

		update := NewUpdateContract(
			sender, 0, types.ContractAddress{}, "a.b", nil, 5000,
		)
		require.Equal(t, types.Energy(5000), update.Energy)

		require.Equal(t, RegisterDataCost, NewRegisterData(sender, nil).Energy)
	})

	t.Run("schedule bounds", func(t *testing.T) {
		_, err := NewTransferWithSchedule(sender, receiver, nil)
		require.ErrorIs(t, err, ErrEmptySchedule)

		_, err = NewTransferWithScheduleAndMemo(
			sender, receiver, make([]types.ScheduledTransfer, 256), nil,
		)
		require.ErrorIs(t, err, ErrScheduleTooLong)
	})

	t.Run("serialized hash", func(t *testing.T) {
		prepared := NewRegisterData(sender, types.RegisteredData{1}).Prepare(3, 4, 1)
		serialized := prepared.Serialize()

		header := serial.Serialize(prepared.Header)
		require.Len(t, header, HeaderSize)
		require.Equal(t, concat(header, prepared.Payload), serialized.Data)
		require.Equal(t, types.TransactionHash(sha256.Sum256(serialized.Data)), serialized.Hash)

		decoded, err := serial.Deserialize(serialized.Data, "prepared", ReadPrepared)
		require.NoError(t, err)
		require.Equal(t, prepared, decoded)

		payload, err := decoded.DecodedPayload()
		require.NoError(t, err)
		require.Equal(t, RegisterData{types.RegisteredData{1}}, payload)
	})
}

func TestHeaderSizeInvariance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var sender types.AccountAddress
		copy(sender[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "sender"))

		data := rapid.SliceOfN(rapid.Byte(), 0, types.RegisteredDataMaxSize).
			Draw(t, "data")
		sigs := rapid.IntRange(1, 20).Draw(t, "signatures")
		tx := NewRegisterData(sender, types.RegisteredData(data))

		prepared := tx.Prepare(
			types.SequenceNumber(rapid.Uint64().Draw(t, "seq")),
			types.TransactionTime(rapid.Uint64().Draw(t, "expiry")),
			sigs,
		)
		header := serial.Serialize(prepared.Header)
		if len(header) != HeaderSize {
			t.Fatalf("header is %d bytes", len(header))
		}
		want := BaseCost(HeaderSize, len(prepared.Payload), sigs) + RegisterDataCost
		if prepared.Header.MaxEnergy != want {
			t.Fatalf("expected energy %d, got %d", want, prepared.Header.MaxEnergy)
		}
	})
}

func genAddress() *rapid.Generator[types.AccountAddress] {
	return rapid.Custom(func(t *rapid.T) types.AccountAddress {
		var a types.AccountAddress
		copy(a[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "address"))
		return a
	})
}

func genMemo() *rapid.Generator[fn.Option[types.Memo]] {
	return rapid.Custom(func(t *rapid.T) fn.Option[types.Memo] {
		if !rapid.Bool().Draw(t, "hasMemo") {
			return fn.None[types.Memo]()
		}
		memo := rapid.SliceOfN(rapid.Byte(), 0, types.MemoMaxSize).Draw(t, "memo")
		return fn.Some(types.Memo(memo))
	})
}

func genName(prefix string) *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		return prefix + rapid.StringMatching(`[a-z_]{0,20}`).Draw(t, "name")
	})
}

func genPayload() *rapid.Generator[Payload] {
	return rapid.OneOf(
		rapid.Custom(func(t *rapid.T) Payload {
			source := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "source")
			version := types.WasmVersion(rapid.IntRange(0, 1).Draw(t, "version"))
			return DeployModule{types.WasmModule{Version: version, Source: source}}
		}),
		rapid.Custom(func(t *rapid.T) Payload {
			var ref types.ModuleReference
			copy(ref[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "ref"))
			return InitContract{
				Amount:    types.MicroCCDAmount(rapid.Uint64().Draw(t, "amount")),
				ModuleRef: ref,
				InitName:  types.InitName(genName("init_").Draw(t, "init")),
				Param:     rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "param"),
			}
		}),
		rapid.Custom(func(t *rapid.T) Payload {
			return UpdateContract{
				Amount: types.MicroCCDAmount(rapid.Uint64().Draw(t, "amount")),
				Address: types.ContractAddress{
					Index:    rapid.Uint64().Draw(t, "index"),
					Subindex: rapid.Uint64().Draw(t, "subindex"),
				},
				ReceiveName: types.ReceiveName(genName("c.").Draw(t, "receive")),
				Message:     rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "message"),
			}
		}),
		rapid.Custom(func(t *rapid.T) Payload {
			return Transfer{
				Receiver: genAddress().Draw(t, "receiver"),
				Amount:   types.MicroCCDAmount(rapid.Uint64().Draw(t, "amount")),
				Memo:     genMemo().Draw(t, "memo"),
			}
		}),
		rapid.Custom(func(t *rapid.T) Payload {
			n := rapid.IntRange(1, MaxScheduleLength).Draw(t, "releases")
			schedule := make([]types.ScheduledTransfer, n)
			for i := range schedule {
				schedule[i] = types.ScheduledTransfer{
					Timestamp: rapid.Uint64().Draw(t, "timestamp"),
					Amount:    types.MicroCCDAmount(rapid.Uint64().Draw(t, "amount")),
				}
			}
			return TransferWithSchedule{
				Receiver: genAddress().Draw(t, "receiver"),
				Schedule: schedule,
				Memo:     genMemo().Draw(t, "memo"),
			}
		}),
		rapid.Custom(func(t *rapid.T) Payload {
			data := rapid.SliceOfN(rapid.Byte(), 0, types.RegisteredDataMaxSize).Draw(t, "data")
			return RegisterData{data}
		}),
	)
}

func TestPayloadRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := genPayload().Draw(t, "payload")
		data := serial.Serialize(payload)

		decoded, err := DecodePayload(data)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if decoded.Type() != payload.Type() {
			t.Fatalf("expected %s, got %s", payload.Type(), decoded.Type())
		}
		if again := serial.Serialize(decoded); string(again) != string(data) {
			t.Fatalf("re-encoding differs:\n%s\n%s", hex.EncodeToString(data), hex.EncodeToString(again))
		}

		cut := rapid.IntRange(0, len(data)-1).Draw(t, "cut")
		if _, err := DecodePayload(data[:cut]); err == nil {
			t.Fatalf("payload truncated at %d decoded", cut)
		}
	})
}

func TestSignedBlockItem(t *testing.T) {
	sender := testAddress(t)
	prepared := NewTransfer(sender, sender, 1).Prepare(1, 2, 2)

	sig0 := []byte(strings.Repeat("a", 64))
	sig1 := []byte(strings.Repeat("b", 64))
	signed := Signed{
		Transaction: prepared,
		Signatures: Signatures{
			0: {0: sig0},
			1: {3: sig1},
		},
	}
	require.Equal(t, 2, signed.Signatures.Count())

	data := signed.BlockItemBytes()
	expectedSigs := concat(
		[]byte{2},
		[]byte{0, 1, 0, 0, 64}, sig0,
		[]byte{1, 1, 3, 0, 64}, sig1,
	)
	require.Equal(t,
		concat([]byte{0}, expectedSigs, prepared.Serialize().Data),
		data,
	)
	require.Equal(t, types.TransactionHash(sha256.Sum256(data)), signed.Hash())

	decoded, err := DecodeBlockItem(data)
	require.NoError(t, err)
	require.Equal(t, signed, decoded)

	_, err = DecodeBlockItem(append([]byte{1}, data[1:]...))
	require.Error(t, err)
}

type fakeDeploymentOracle struct {
	err error
}

func (o fakeDeploymentOracle) CredentialDeploymentHash(
	credential AccountCredential, expiry types.TransactionTime,
) ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	h := sha256.Sum256(append([]byte(credential), byte(expiry)))
	return h[:], nil
}

func (o fakeDeploymentOracle) CredentialDeploymentPayload(
	credential AccountCredential, sigs CredentialSignatures,
) ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	return append([]byte(credential), serial.Serialize(sigs)...), nil
}

func TestCredentialDeployment(t *testing.T) {
	deployment := PreparedCredentialDeployment{
		Credential: AccountCredential(`{"credential":true}`),
		Expiry:     42,
	}

	hash, err := deployment.Hash(fakeDeploymentOracle{})
	require.NoError(t, err)
	require.Len(t, hash, 32)

	signed := SignedCredentialDeployment{deployment, CredentialSignatures{0: {1, 2}}}
	serialized, err := signed.Serialize(fakeDeploymentOracle{})
	require.NoError(t, err)
	require.Equal(t, types.TransactionTime(42), serialized.Expiry)
	require.Equal(t,
		concat([]byte(`{"credential":true}`), []byte{1, 0, 0, 2, 1, 2}),
		serialized.Data,
	)

	oracleErr := errors.New("oracle down")
	_, err = deployment.Hash(fakeDeploymentOracle{oracleErr})
	require.ErrorIs(t, err, oracleErr)
	_, err = signed.Serialize(fakeDeploymentOracle{oracleErr})
	require.ErrorIs(t, err, oracleErr)
}
