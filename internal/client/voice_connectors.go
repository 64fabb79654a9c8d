package client

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/comms-client/internal/executor"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

var (
	createVoiceConnectorOp = executor.Operation[*comms.CreateVoiceConnectorRequest, *comms.VoiceConnector]{
		Name: "CreateVoiceConnector",
		Encode: func(in *comms.CreateVoiceConnectorRequest) (*executor.WireRequest, error) {
			return executor.NewJSONRequest(http.MethodPost, executor.PathOf("voice-connectors"), nil, in)
		},
		Decode: executor.DecodeField[comms.VoiceConnector]("VoiceConnector"),
	}

	getVoiceConnectorOp = executor.Operation[*comms.GetVoiceConnectorRequest, *comms.VoiceConnector]{
		Name: "GetVoiceConnector",
		Encode: func(in *comms.GetVoiceConnectorRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodGet, executor.PathOf("voice-connectors", in.VoiceConnectorID), nil), nil
		},
		Decode: executor.DecodeField[comms.VoiceConnector]("VoiceConnector"),
	}

	listVoiceConnectorsOp = executor.Operation[*comms.ListVoiceConnectorsRequest, *comms.ListResponse[comms.VoiceConnector]]{
		Name: "ListVoiceConnectors",
		Encode: func(in *comms.ListVoiceConnectorsRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodGet, executor.PathOf("voice-connectors"), in.ToValues()), nil
		},
		Decode: decodeList[comms.VoiceConnector]("VoiceConnectors"),
	}

	deleteVoiceConnectorOp = executor.Operation[*comms.DeleteVoiceConnectorRequest, struct{}]{
		Name: "DeleteVoiceConnector",
		Encode: func(in *comms.DeleteVoiceConnectorRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodDelete, executor.PathOf("voice-connectors", in.VoiceConnectorID), nil), nil
		},
		Decode: executor.DiscardBody,
	}
)

// VoiceConnectorsClient implements comms.VoiceConnectorsClient.
type VoiceConnectorsClient struct {
	executor *executor.Executor
}

// NewVoiceConnectorsClient creates a new voice connectors client.
func NewVoiceConnectorsClient(exec *executor.Executor) *VoiceConnectorsClient {
	return &VoiceConnectorsClient{
		executor: exec,
	}
}

// Create implements comms.VoiceConnectorsClient.Create.
func (c *VoiceConnectorsClient) Create(ctx context.Context, request *comms.CreateVoiceConnectorRequest) (*comms.VoiceConnector, error) {
	return executor.Execute(ctx, c.executor, createVoiceConnectorOp, request)
}

// Get implements comms.VoiceConnectorsClient.Get.
func (c *VoiceConnectorsClient) Get(ctx context.Context, request *comms.GetVoiceConnectorRequest) (*comms.VoiceConnector, error) {
	return executor.Execute(ctx, c.executor, getVoiceConnectorOp, request)
}

// List implements comms.VoiceConnectorsClient.List.
func (c *VoiceConnectorsClient) List(ctx context.Context, request *comms.ListVoiceConnectorsRequest) (*comms.ListResponse[comms.VoiceConnector], error) {
	if request == nil {
		request = &comms.ListVoiceConnectorsRequest{}
	}

	return executor.Execute(ctx, c.executor, listVoiceConnectorsOp, request)
}

// Delete implements comms.VoiceConnectorsClient.Delete.
func (c *VoiceConnectorsClient) Delete(ctx context.Context, request *comms.DeleteVoiceConnectorRequest) error {
	_, err := executor.Execute(ctx, c.executor, deleteVoiceConnectorOp, request)

	return err
}
