package runpod

import (
	graphql "github.com/hasura/go-graphql-client"
)

// gpuTypesQuery lists every GPU type with the cheapest current price for
// the requested GPU count.
type gpuTypesQuery struct {
	GPUTypes []gpuType `graphql:"gpuTypes"`
}

type gpuType struct {
	ID          graphql.String `graphql:"id"`
	DisplayName graphql.String `graphql:"displayName"`
	MemoryInGb  *graphql.Int   `graphql:"memoryInGb"`
	LowestPrice lowestPrice    `graphql:"lowestPrice(input: {gpuCount: $gpuCount})"`
}

type lowestPrice struct {
	MinimumBidPrice      *graphql.Float `graphql:"minimumBidPrice"`
	UninterruptablePrice *graphql.Float `graphql:"uninterruptablePrice"`
	TotalCount           *graphql.Int   `graphql:"totalCount"`
	RentedCount          *graphql.Int   `graphql:"rentedCount"`
}

// podQuery reads the runtime of one pod. Runtime is null until the
// container starts; the zero value then has no ports.
type podQuery struct {
	Pod struct {
		ID            graphql.String `graphql:"id"`
		DesiredStatus graphql.String `graphql:"desiredStatus"`
		Runtime       struct {
			UptimeInSeconds *graphql.Int `graphql:"uptimeInSeconds"`
			Ports           []podPort    `graphql:"ports"`
		} `graphql:"runtime"`
	} `graphql:"pod(input: {podId: $podId})"`
}

type podPort struct {
	IP          graphql.String  `graphql:"ip"`
	IsIPPublic  graphql.Boolean `graphql:"isIpPublic"`
	PrivatePort graphql.Int     `graphql:"privatePort"`
	PublicPort  graphql.Int     `graphql:"publicPort"`
	Type        graphql.String  `graphql:"type"`
}

// podFields is the selection returned by the create mutations.
type podFields struct {
	ID            graphql.String `graphql:"id"`
	DesiredStatus graphql.String `graphql:"desiredStatus"`
	ImageName     graphql.String `graphql:"imageName"`
	MachineID     graphql.String `graphql:"machineId"`
}

type deployOnDemandMutation struct {
	Pod podFields `graphql:"podFindAndDeployOnDemand(input: $input)"`
}

type rentInterruptableMutation struct {
	Pod podFields `graphql:"podRentInterruptable(input: $input)"`
}

type stopMutation struct {
	PodStop struct {
		ID            graphql.String `graphql:"id"`
		DesiredStatus graphql.String `graphql:"desiredStatus"`
	} `graphql:"podStop(input: {podId: $podId})"`
}

// The input type names below are the provider's schema type names; the
// client derives variable types from them.

// EnvironmentVariableInput is one container environment variable.
type EnvironmentVariableInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type podInputFields struct {
	CloudType         string                     `json:"cloudType"`
	GPUCount          int                        `json:"gpuCount"`
	VolumeInGb        int                        `json:"volumeInGb"`
	ContainerDiskInGb int                        `json:"containerDiskInGb"`
	MinVcpuCount      int                        `json:"minVcpuCount"`
	MinMemoryInGb     int                        `json:"minMemoryInGb"`
	GPUTypeID         string                     `json:"gpuTypeId"`
	Name              string                     `json:"name"`
	ImageName         string                     `json:"imageName"`
	Ports             string                     `json:"ports"`
	VolumeMountPath   string                     `json:"volumeMountPath"`
	Env               []EnvironmentVariableInput `json:"env"`
}

// PodFindAndDeployOnDemandInput creates an on-demand pod.
type PodFindAndDeployOnDemandInput struct {
	podInputFields
}

// PodRentInterruptableInput creates an interruptible pod at a bid price.
type PodRentInterruptableInput struct {
	podInputFields
	BidPerGpu float64 `json:"bidPerGpu"`
}
