package transaction

import "github.com/ccd-network/ccdkit/pkg/types"

const (
	// EnergyPerByte is charged for every byte of header and payload.
	EnergyPerByte types.Energy = 1
	// EnergyPerSignature is charged for every signature on a transaction.
	EnergyPerSignature types.Energy = 100

	// TransferCost is the execution cost of a transfer, with or without a
	// memo.
	TransferCost types.Energy = 300
	// ScheduledReleaseCost is charged per release of a scheduled transfer.
	ScheduledReleaseCost types.Energy = 300 + 64
	// RegisterDataCost is the execution cost of registering data.
	RegisterDataCost types.Energy = 300

	updateCredentialKeysPerCredential types.Energy = 500
	updateCredentialKeysPerKey        types.Energy = 100
)

// BaseCost is the size and signature part of the cost of every transaction.
func BaseCost(headerSize, payloadSize, signatureCount int) types.Energy {
	size := types.Energy(headerSize + payloadSize)
	return EnergyPerByte*size + EnergyPerSignature*types.Energy(signatureCount)
}

// TransferWithScheduleCost is the execution cost of a scheduled transfer with
// the given number of releases.
func TransferWithScheduleCost(releases int) types.Energy {
	return types.Energy(releases) * ScheduledReleaseCost
}

// DeployModuleCost is the execution cost of deploying a module.
func DeployModuleCost(module types.WasmModule) types.Energy {
	return types.Energy(len(module.Source)) / 10
}

// UpdateCredentialKeysCost is the execution cost of replacing the keys of a
// credential on an account currently holding credentialCount credentials.
func UpdateCredentialKeysCost(credentialCount, keyCount int) types.Energy {
	return updateCredentialKeysPerCredential*types.Energy(credentialCount) +
		updateCredentialKeysPerKey*types.Energy(keyCount)
}
