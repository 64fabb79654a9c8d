package client

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/comms-client/internal/executor"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

var (
	createAccountOp = executor.Operation[*comms.CreateAccountRequest, *comms.Account]{
		Name: "CreateAccount",
		Encode: func(in *comms.CreateAccountRequest) (*executor.WireRequest, error) {
			return executor.NewJSONRequest(http.MethodPost, executor.PathOf("accounts"), nil, in)
		},
		Decode: executor.DecodeField[comms.Account]("Account"),
	}

	getAccountOp = executor.Operation[*comms.GetAccountRequest, *comms.Account]{
		Name: "GetAccount",
		Encode: func(in *comms.GetAccountRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodGet, executor.PathOf("accounts", in.AccountID), nil), nil
		},
		Decode: executor.DecodeField[comms.Account]("Account"),
	}

	listAccountsOp = executor.Operation[*comms.ListAccountsRequest, *comms.ListResponse[comms.Account]]{
		Name: "ListAccounts",
		Encode: func(in *comms.ListAccountsRequest) (*executor.WireRequest, error) {
			query := in.ToValues()

			if in.Name != "" {
				query.Set("name", in.Name)
			}

			if in.UserEmail != "" {
				query.Set("user-email", in.UserEmail)
			}

			return executor.NewRequest(http.MethodGet, executor.PathOf("accounts"), query), nil
		},
		Decode: decodeList[comms.Account]("Accounts"),
	}

	updateAccountOp = executor.Operation[*comms.UpdateAccountRequest, *comms.Account]{
		Name: "UpdateAccount",
		Encode: func(in *comms.UpdateAccountRequest) (*executor.WireRequest, error) {
			return executor.NewJSONRequest(http.MethodPost, executor.PathOf("accounts", in.AccountID), nil, in)
		},
		Decode: executor.DecodeField[comms.Account]("Account"),
	}

	deleteAccountOp = executor.Operation[*comms.DeleteAccountRequest, struct{}]{
		Name: "DeleteAccount",
		Encode: func(in *comms.DeleteAccountRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodDelete, executor.PathOf("accounts", in.AccountID), nil), nil
		},
		Decode: executor.DiscardBody,
	}
)

// AccountsClient implements comms.AccountsClient.
type AccountsClient struct {
	executor *executor.Executor
}

// NewAccountsClient creates a new accounts client.
func NewAccountsClient(exec *executor.Executor) *AccountsClient {
	return &AccountsClient{
		executor: exec,
	}
}

// Create implements comms.AccountsClient.Create.
func (c *AccountsClient) Create(ctx context.Context, request *comms.CreateAccountRequest) (*comms.Account, error) {
	return executor.Execute(ctx, c.executor, createAccountOp, request)
}

// Get implements comms.AccountsClient.Get.
func (c *AccountsClient) Get(ctx context.Context, request *comms.GetAccountRequest) (*comms.Account, error) {
	return executor.Execute(ctx, c.executor, getAccountOp, request)
}

// List implements comms.AccountsClient.List.
func (c *AccountsClient) List(ctx context.Context, request *comms.ListAccountsRequest) (*comms.ListResponse[comms.Account], error) {
	if request == nil {
		request = &comms.ListAccountsRequest{}
	}

	return executor.Execute(ctx, c.executor, listAccountsOp, request)
}

// Update implements comms.AccountsClient.Update.
func (c *AccountsClient) Update(ctx context.Context, request *comms.UpdateAccountRequest) (*comms.Account, error) {
	return executor.Execute(ctx, c.executor, updateAccountOp, request)
}

// Delete implements comms.AccountsClient.Delete.
func (c *AccountsClient) Delete(ctx context.Context, request *comms.DeleteAccountRequest) error {
	_, err := executor.Execute(ctx, c.executor, deleteAccountOp, request)

	return err
}
