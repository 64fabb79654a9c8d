package client

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/comms-client/internal/executor"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

var (
	getPhoneNumberOp = executor.Operation[*comms.GetPhoneNumberRequest, *comms.PhoneNumber]{
		Name: "GetPhoneNumber",
		Encode: func(in *comms.GetPhoneNumberRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodGet, executor.PathOf("phone-numbers", in.PhoneNumberID), nil), nil
		},
		Decode: executor.DecodeField[comms.PhoneNumber]("PhoneNumber"),
	}

	listPhoneNumbersOp = executor.Operation[*comms.ListPhoneNumbersRequest, *comms.ListResponse[comms.PhoneNumber]]{
		Name: "ListPhoneNumbers",
		Encode: func(in *comms.ListPhoneNumbersRequest) (*executor.WireRequest, error) {
			query := in.ToValues()

			if in.Status != "" {
				query.Set("status", in.Status)
			}

			if in.ProductType != "" {
				query.Set("product-type", in.ProductType)
			}

			return executor.NewRequest(http.MethodGet, executor.PathOf("phone-numbers"), query), nil
		},
		Decode: decodeList[comms.PhoneNumber]("PhoneNumbers"),
	}

	deletePhoneNumberOp = executor.Operation[*comms.DeletePhoneNumberRequest, struct{}]{
		Name: "DeletePhoneNumber",
		Encode: func(in *comms.DeletePhoneNumberRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodDelete, executor.PathOf("phone-numbers", in.PhoneNumberID), nil), nil
		},
		Decode: executor.DiscardBody,
	}
)

// PhoneNumbersClient implements comms.PhoneNumbersClient.
type PhoneNumbersClient struct {
	executor *executor.Executor
}

// NewPhoneNumbersClient creates a new phone numbers client.
func NewPhoneNumbersClient(exec *executor.Executor) *PhoneNumbersClient {
	return &PhoneNumbersClient{
		executor: exec,
	}
}

// Get implements comms.PhoneNumbersClient.Get.
func (c *PhoneNumbersClient) Get(ctx context.Context, request *comms.GetPhoneNumberRequest) (*comms.PhoneNumber, error) {
	return executor.Execute(ctx, c.executor, getPhoneNumberOp, request)
}

// List implements comms.PhoneNumbersClient.List.
func (c *PhoneNumbersClient) List(ctx context.Context, request *comms.ListPhoneNumbersRequest) (*comms.ListResponse[comms.PhoneNumber], error) {
	if request == nil {
		request = &comms.ListPhoneNumbersRequest{}
	}

	return executor.Execute(ctx, c.executor, listPhoneNumbersOp, request)
}

// Delete implements comms.PhoneNumbersClient.Delete.
func (c *PhoneNumbersClient) Delete(ctx context.Context, request *comms.DeletePhoneNumberRequest) error {
	_, err := executor.Execute(ctx, c.executor, deletePhoneNumberOp, request)

	return err
}
