// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/benbjohnson/clock"
)

// refreshInterval is how often the tree batches "new results available"
// notifications while a load is running.
const refreshInterval = 500 * time.Millisecond

// CredentialError indicates the account credential could not be used to list
// subscriptions or resources. The tree surfaces it as a sign-in prompt
// instead of failing the load.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("Sign in to your Azure account to view resources: %s", e.Err.Error())
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

func isCredentialError(err error) bool {
	var authFailed *azidentity.AuthenticationFailedError
	if errors.As(err, &authFailed) {
		return true
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && (respErr.StatusCode == 401 || respErr.StatusCode == 403) {
		return true
	}

	return false
}

// TreeNode is one entry of the flat account tree.
type TreeNode struct {
	Label string
	// Message nodes carry an informational label instead of a resource,
	// e.g. the sign-in prompt after a credential failure.
	IsMessage bool
	Resource  *Resource
}

// SubscriptionsLister is the subset of SubscriptionsService the tree needs.
type SubscriptionsLister interface {
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
}

// ResourcesLister is the subset of ResourcesService the tree needs.
type ResourcesLister interface {
	ListResources(ctx context.Context, subscriptionId string, filter string) ([]*Resource, error)
}

// AccountTreeNode lazily loads the subscriptions of the signed in account and
// flattens their SQL resources into a single list of children.
//
// While a load is running, children appear incrementally; observers are
// notified in batches on a fixed interval rather than once per result, and
// the ticker driving the batching is stopped as soon as loading completes.
// A load is never re-entered: Load returns immediately when one is already
// in progress.
type AccountTreeNode struct {
	subscriptions SubscriptionsLister
	resources     ResourcesLister
	filter        string
	clk           clock.Clock
	// onRefresh is invoked, at most once per refresh interval, when new
	// children arrived since the previous notification.
	onRefresh func()

	mu       sync.Mutex
	loading  bool
	loaded   bool
	dirty    bool
	children []*TreeNode
}

// NewAccountTreeNode creates the account tree root. onRefresh may be nil.
func NewAccountTreeNode(
	subscriptions SubscriptionsLister,
	resources ResourcesLister,
	clk clock.Clock,
	onRefresh func(),
) *AccountTreeNode {
	if onRefresh == nil {
		onRefresh = func() {}
	}

	return &AccountTreeNode{
		subscriptions: subscriptions,
		resources:     resources,
		filter:        SqlServerFilter,
		clk:           clk,
		onRefresh:     onRefresh,
	}
}

// Label returns the display label of the node, including the number of loaded
// children once a load has completed.
func (n *AccountTreeNode) Label() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.loaded {
		return "Azure SQL resources"
	}

	return fmt.Sprintf("Azure SQL resources (%d)", len(n.children))
}

// Children returns a snapshot of the loaded children.
func (n *AccountTreeNode) Children() []*TreeNode {
	n.mu.Lock()
	defer n.mu.Unlock()

	children := make([]*TreeNode, len(n.children))
	copy(children, n.children)
	return children
}

// Load populates the tree's children from the account's subscriptions. When a
// load is already in progress the call is a no-op. Credential failures do not
// fail the load; the children are replaced with a single message node showing
// the formatted error so the tree stays usable.
func (n *AccountTreeNode) Load(ctx context.Context) error {
	n.mu.Lock()
	if n.loading {
		n.mu.Unlock()
		return nil
	}
	n.loading = true
	n.children = nil
	n.dirty = false
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		n.loading = false
		n.loaded = true
		n.mu.Unlock()

		// Deliver the final batch regardless of ticker timing.
		n.notifyIfDirty()
	}()

	stopTicker := n.startRefreshTicker()
	defer stopTicker()

	subscriptions, err := n.subscriptions.ListSubscriptions(ctx)
	if err != nil {
		return n.handleLoadError(err)
	}

	for _, subscription := range subscriptions {
		resources, err := n.resources.ListResources(ctx, subscription.Id, n.filter)
		if err != nil {
			return n.handleLoadError(err)
		}

		nodes := make([]*TreeNode, 0, len(resources))
		for _, resource := range resources {
			nodes = append(nodes, &TreeNode{
				Label:    fmt.Sprintf("%s (%s)", resource.Name, subscription.Name),
				Resource: resource,
			})
		}

		n.appendChildren(nodes)
	}

	return nil
}

// startRefreshTicker begins batching refresh notifications. The returned
// function cancels the ticker; it is called when loading completes.
func (n *AccountTreeNode) startRefreshTicker() func() {
	ticker := n.clk.Ticker(refreshInterval)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ticker.C:
				n.notifyIfDirty()
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
		<-stopped
	}
}

func (n *AccountTreeNode) appendChildren(nodes []*TreeNode) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.children = append(n.children, nodes...)
	if len(nodes) > 0 {
		n.dirty = true
	}
}

func (n *AccountTreeNode) notifyIfDirty() {
	n.mu.Lock()
	if !n.dirty {
		n.mu.Unlock()
		return
	}
	n.dirty = false
	n.mu.Unlock()

	n.onRefresh()
}

// handleLoadError converts credential failures into a message node and
// passes every other error through.
func (n *AccountTreeNode) handleLoadError(err error) error {
	if !isCredentialError(err) {
		return err
	}

	credErr := &CredentialError{Err: err}

	n.mu.Lock()
	n.children = []*TreeNode{{
		Label:     credErr.Error(),
		IsMessage: true,
	}}
	n.dirty = true
	n.mu.Unlock()

	return nil
}
