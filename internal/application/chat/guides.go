package chat

import "strings"

// ContractGuide 合约使用指南，模型通过 get_contract_guide 工具按需加载。
// 覆盖动作参数格式、表 scope 和常见坑，让模型不靠猜测构建交易。
type ContractGuide struct {
	// Contract 合约账户名
	Contract string `json:"contract"`
	// Chains 适用链名，"*" 表示全部 Antelope 链
	Chains []string `json:"chains"`
	// Summary 一行描述
	Summary string `json:"summary"`
	// Guide 完整指南文本，即模型读取的内容
	Guide string `json:"guide"`
}

// GuideSummary 指南列表项
type GuideSummary struct {
	Contract string `json:"contract"`
	Summary  string `json:"summary"`
}

// GetContractGuide 按合约名查找指南，可选按链名过滤。
// 链匹配规则：chains 含 "*"，或某个链名与 chainHint 互为子串。
func GetContractGuide(contract, chainHint string) *ContractGuide {
	lower := strings.ToLower(contract)
	chainLower := strings.ToLower(chainHint)

	for i := range guides {
		g := &guides[i]
		if strings.ToLower(g.Contract) != lower {
			continue
		}
		if containsStar(g.Chains) {
			return g
		}
		if chainLower != "" && chainMatches(g.Chains, chainLower) {
			return g
		}
		if chainLower == "" {
			return g
		}
	}
	return nil
}

// ListAvailableGuides 列出可用指南，可选按链名过滤
func ListAvailableGuides(chainHint string) []GuideSummary {
	chainLower := strings.ToLower(chainHint)
	out := make([]GuideSummary, 0, len(guides))
	for i := range guides {
		g := &guides[i]
		if !containsStar(g.Chains) && chainLower != "" && !chainMatches(g.Chains, chainLower) {
			continue
		}
		out = append(out, GuideSummary{Contract: g.Contract, Summary: g.Summary})
	}
	return out
}

func containsStar(chains []string) bool {
	for _, c := range chains {
		if c == "*" {
			return true
		}
	}
	return false
}

func chainMatches(chains []string, chainLower string) bool {
	for _, c := range chains {
		c = strings.ToLower(c)
		if strings.Contains(chainLower, c) || strings.Contains(c, chainLower) {
			return true
		}
	}
	return false
}

var guides = []ContractGuide{
	{
		Contract: "eosio.system",
		Chains:   []string{"*"},
		Summary:  "System contract: staking, RAM, REX, voting, account creation, powerup",
		Guide: `# eosio.system — System Contract Guide

## Staking (CPU / NET)

### delegatebw — Stake tokens for CPU and NET
- account: "eosio"
- action: "delegatebw"
- data:
  - from: (account paying)
  - receiver: (account receiving resources, can be same as from)
  - stake_net_quantity: "1.0000 EOS" (must match chain token precision+symbol)
  - stake_cpu_quantity: "1.0000 EOS"
  - transfer: false (true = gift the staked tokens to receiver)

### undelegatebw — Unstake tokens
- account: "eosio"
- action: "undelegatebw"
- data:
  - from: (account that originally staked)
  - receiver: (account to unstake from)
  - unstake_net_quantity: "1.0000 EOS"
  - unstake_cpu_quantity: "1.0000 EOS"
- NOTE: Unstaked tokens have a 3-day refund period on most chains.

## RAM

### buyram — Buy RAM with tokens
- account: "eosio"
- action: "buyram"
- data:
  - payer: (account paying)
  - receiver: (account receiving RAM)
  - quant: "1.0000 EOS" (amount of tokens to spend on RAM)

### buyrambytes — Buy exact bytes of RAM
- account: "eosio"
- action: "buyrambytes"
- data:
  - payer: (account paying)
  - receiver: (account receiving RAM)
  - bytes: 8192 (number — NOT a string)

### sellram — Sell RAM for tokens
- account: "eosio"
- action: "sellram"
- data:
  - account: (account selling RAM)
  - bytes: 8192 (number)

## Voting

### voteproducer — Vote for block producers
- account: "eosio"
- action: "voteproducer"
- data:
  - voter: (account voting)
  - proxy: "" (set to a proxy account name OR leave empty to vote directly)
  - producers: ["bp1", "bp2", ...] (array, sorted alphabetically, max 30)
- NOTE: producers array MUST be sorted alphabetically or the transaction will fail.

## Account Creation

### newaccount — Create a new account
- This requires TWO actions in sequence:
  1. eosio::newaccount — create the account
  2. eosio::buyrambytes — buy RAM for the new account
  3. (optional) eosio::delegatebw — stake CPU/NET for the new account

- Action 1 (newaccount):
  - account: "eosio"
  - name: "newaccount"
  - data:
    - creator: (existing account paying)
    - name: (new 12-char account name, a-z, 1-5, dots allowed except at end)
    - owner: { threshold: 1, keys: [{ key: "EOS...", weight: 1 }], accounts: [], waits: [] }
    - active: { threshold: 1, keys: [{ key: "EOS...", weight: 1 }], accounts: [], waits: [] }

## REX (Resource Exchange)

REX lets users lend tokens to earn staking rewards, and renters can cheaply get CPU/NET.

### deposit — Deposit tokens into REX fund
- account: "eosio"
- action: "deposit"
- data:
  - owner: (account depositing)
  - amount: "10.0000 EOS" (tokens to deposit into REX fund)

### withdraw — Withdraw tokens from REX fund
- account: "eosio"
- action: "withdraw"
- data:
  - owner: (account withdrawing)
  - amount: "10.0000 EOS"
- IMPORTANT: Before building withdraw, ALWAYS query rexfund first (get_table_rows code="eosio", table="rexfund", scope="eosio", lower_bound=account, upper_bound=account) to get the user's actual available balance. Use that value for the amount field.

### buyrex — Buy REX tokens (lend resources to earn yield)
- account: "eosio"
- action: "buyrex"
- data:
  - from: (account buying REX, must have deposited first)
  - amount: "10.0000 EOS" (tokens from REX fund to convert to REX)
- NOTE: Must call deposit first. REX has a 4-day maturity period before it can be sold.

### sellrex — Sell REX tokens back for tokens
- account: "eosio"
- action: "sellrex"
- data:
  - from: (account selling)
  - rex: "1000.0000 REX" (amount of REX to sell — note REX has 4 decimal precision)
- NOTE: REX must be matured (4 days after purchase). If not enough liquid REX is available, the sell order is queued.
- IMPORTANT: Before building sellrex, ALWAYS query rexbal first (get_table_rows code="eosio", table="rexbal", scope="eosio", lower_bound=account, upper_bound=account) to get the user's actual rex_balance. Use that value for the rex field.

### unstaketorex — Convert staked tokens directly to REX
- account: "eosio"
- action: "unstaketorex"
- data:
  - owner: (account that staked)
  - receiver: (account resources were staked to)
  - from_net: "1.0000 EOS" (amount to unstake from NET)
  - from_cpu: "1.0000 EOS" (amount to unstake from CPU)
- NOTE: Skips the 3-day unstaking refund — tokens go directly into REX.

### rentcpu — Rent CPU from REX pool
- account: "eosio"
- action: "rentcpu"
- data:
  - from: (account paying the rental fee)
  - receiver: (account receiving CPU resources)
  - loan_payment: "0.1000 EOS" (rental fee)
  - loan_fund: "0.0000 EOS" (extra deposit for auto-renewal, 0 = no auto-renew)
- NOTE: Rental lasts 30 days. Cost depends on REX pool utilization.

### rentnet — Rent NET from REX pool
- account: "eosio"
- action: "rentnet"
- data:
  - from: (account paying)
  - receiver: (account receiving NET resources)
  - loan_payment: "0.1000 EOS"
  - loan_fund: "0.0000 EOS"

### mvtosavings — Move REX to savings (no maturity expiry)
- account: "eosio"
- action: "mvtosavings"
- data:
  - owner: (account)
  - rex: "1000.0000 REX"
- NOTE: REX in savings cannot be sold until moved back with mvfromsavings (which restarts the 4-day maturity).

### mvfromsavings — Move REX out of savings
- account: "eosio"
- action: "mvfromsavings"
- data:
  - owner: (account)
  - rex: "1000.0000 REX"
- NOTE: Starts a new 4-day maturity period.

### Typical REX workflow
1. deposit → buyrex (to lend and earn)
2. Wait 4 days for maturity
3. Query rexbal to get actual rex_balance → sellrex with that amount
4. Query rexfund to get available balance → withdraw with that amount

### Querying REX
All REX tables use code="eosio" and scope="eosio". To get a specific account's row, set BOTH lower_bound AND upper_bound to the account name.

- get_table_rows(code="eosio", table="rexbal", scope="eosio", lower_bound="<account>", upper_bound="<account>") → REX balance for a specific account (rex_balance, matured_rex, vote_stake)
- get_table_rows(code="eosio", table="rexfund", scope="eosio", lower_bound="<account>", upper_bound="<account>") → deposited funds not yet converted to REX
- get_table_rows(code="eosio", table="rexpool", scope="eosio") → global REX pool stats (no bounds needed, single row)
- get_table_rows(code="eosio", table="cpuloan", scope="eosio") → active CPU rental loans
- get_table_rows(code="eosio", table="netloan", scope="eosio") → active NET rental loans

## Powerup (EOS Mainnet)

### powerup — Rent CPU/NET resources
- account: "eosio"
- action: "powerup"
- data:
  - payer: (account paying)
  - receiver: (account receiving resources)
  - days: 1 (always 1 on EOS)
  - net_frac: 0 (fraction of total network, use 0 if only need CPU)
  - cpu_frac: 100000000 (fraction of total network capacity)
  - max_payment: "0.0100 EOS" (max willing to pay)
- NOTE: Powerup is the modern way to get CPU/NET on EOS mainnet. Staking still works but powerup is cheaper for temporary usage.

## Common Token Precisions
- EOS: 4 decimals, symbol "EOS" → "1.0000 EOS"
- WAX: 8 decimals, symbol "WAX" → "1.00000000 WAX"
- TLOS: 4 decimals, symbol "TLOS" → "1.0000 TLOS"
- FIO: 9 decimals, symbol "FIO" → "1.000000000 FIO"
- LIBRE: 4 decimals, symbol "LIBRE" → "1.0000 LIBRE"

## Querying Resource Info
- Table: "eosio" / "userres" / scope = account_name → shows RAM, CPU, NET delegated
- Table: "eosio" / "delband" / scope = account_name → shows delegation details
- Table: "eosio" / "refunds" / scope = account_name → shows pending refunds`,
	},
	{
		Contract: "eosio.token",
		Chains:   []string{"*"},
		Summary:  "Standard token contract: transfers, token creation, supply queries",
		Guide: `# eosio.token — Token Contract Guide

## Transfer

### transfer — Send tokens
- account: "eosio.token" (or the specific token contract)
- action: "transfer"
- data:
  - from: (sender account)
  - to: (receiver account)
  - quantity: "1.0000 EOS" (MUST match exact precision and symbol)
  - memo: "" (string, can be empty, max 256 chars)

### CRITICAL — Quantity Format
The quantity MUST match the token's exact precision and symbol:
- EOS: "1.0000 EOS" (4 decimals)
- WAX: "1.00000000 WAX" (8 decimals)
- TLOS: "1.0000 TLOS" (4 decimals)
- USDT on EOS: "1.0000 USDT" (4 decimals, contract: tethertether)
- Wrong precision = transaction FAILS with "symbol precision mismatch"

### How to find token precision
1. get_currency_balance on the token contract for any known holder
2. Or query table: code=<token_contract>, table="stat", scope=<SYMBOL> → look at "max_supply" field for precision

## Token Creation (for contract deployers)

### create — Create a new token
- account: (token contract account)
- action: "create"
- data:
  - issuer: (account that can issue)
  - maximum_supply: "1000000.0000 EOS"

### issue — Issue tokens to issuer
- account: (token contract)
- action: "issue"
- data:
  - to: (must be the issuer)
  - quantity: "100.0000 EOS"
  - memo: ""

## Querying Balances
- Table: code=<token_contract>, table="accounts", scope=<account_name>
- Table: code=<token_contract>, table="stat", scope=<SYMBOL> → supply info

## Common Token Contracts by Chain
- EOS: eosio.token (EOS), tethertether (USDT), everipediaiq (IQ)
- WAX: eosio.token (WAX)
- Telos: eosio.token (TLOS), tokens.swaps (various)`,
	},
	{
		Contract: "eosio.msig",
		Chains:   []string{"*"},
		Summary:  "Multisig proposals: propose, approve, execute multi-signature transactions",
		Guide: `# eosio.msig — Multisig Contract Guide

## Workflow
1. propose — Create a proposal with the transaction and required approvals
2. approve — Each required signer approves
3. exec — Anyone executes once all approvals are collected
4. (optional) cancel — Proposer can cancel anytime before execution

## propose — Create a multisig proposal
- account: "eosio.msig"
- action: "propose"
- data:
  - proposer: (account creating the proposal)
  - proposal_name: (unique name, up to 12 chars, a-z1-5)
  - requested: [{ actor: "account1", permission: "active" }, { actor: "account2", permission: "active" }]
  - trx: {
      expiration: "2025-12-31T23:59:59" (must be in the future),
      ref_block_num: 0,
      ref_block_prefix: 0,
      max_net_usage_words: 0,
      max_cpu_usage_ms: 0,
      delay_sec: 0,
      actions: [{ account: "eosio.token", name: "transfer", authorization: [...], data: "..." }]
    }
- NOTE: The "data" field in actions must be hex-encoded. Use the chain's /v1/chain/abi_json_to_bin endpoint to convert JSON action data to hex.

## approve — Approve a proposal
- account: "eosio.msig"
- action: "approve"
- data:
  - proposer: (who created the proposal)
  - proposal_name: (name of the proposal)
  - level: { actor: "myaccount", permission: "active" }

## exec — Execute an approved proposal
- account: "eosio.msig"
- action: "exec"
- data:
  - proposer: (who created the proposal)
  - proposal_name: (name of the proposal)
  - executer: (account paying for execution CPU/NET)

## cancel — Cancel a proposal
- account: "eosio.msig"
- action: "cancel"
- data:
  - proposer: (must be the original proposer)
  - proposal_name: (name)
  - canceler: (must be proposer)

## Querying Proposals
- Table: code="eosio.msig", table="proposal", scope=<proposer> → list proposals
- Table: code="eosio.msig", table="approvals2", scope=<proposer> → see who approved`,
	},
	{
		Contract: "atomicassets",
		Chains:   []string{"wax", "eos"},
		Summary:  "NFT standard: create collections, schemas, templates, mint and transfer NFTs",
		Guide: `# atomicassets — NFT Contract Guide

## Key Concepts
- Collection: top-level grouping (e.g. a game or brand)
- Schema: defines attribute types within a collection
- Template: a blueprint with fixed attributes (immutable data)
- Asset: an individual NFT minted from a template

## Transfer NFTs

### transfer — Send NFTs
- account: "atomicassets"
- action: "transfer"
- data:
  - from: (sender)
  - to: (receiver)
  - asset_ids: ["1099512345678"] (array of asset ID strings)
  - memo: "" (string)
- NOTE: asset_ids are large numbers passed as strings.

## Create a Collection

### createcol — Create collection
- account: "atomicassets"
- action: "createcol"
- data:
  - author: (creator account)
  - collection_name: (up to 12 chars)
  - allow_notify: true
  - authorized_accounts: ["author_account"]
  - notify_accounts: []
  - market_fee: 0.05 (5% marketplace fee, decimal)
  - data: [] (serialized collection metadata)

## Create a Schema

### createschema
- account: "atomicassets"
- action: "createschema"
- data:
  - authorized_creator: (must be in collection's authorized_accounts)
  - collection_name: (existing collection)
  - schema_name: (up to 12 chars)
  - schema_format: [{ name: "name", type: "string" }, { name: "img", type: "image" }, { name: "rarity", type: "string" }]

## Mint an NFT

### mintasset
- account: "atomicassets"
- action: "mintasset"
- data:
  - authorized_minter: (must be in authorized_accounts)
  - collection_name: (collection)
  - schema_name: (schema)
  - template_id: 12345 (or -1 for no template)
  - new_asset_owner: (account receiving the NFT)
  - immutable_data: [{ key: "name", value: ["string", "My NFT"] }]
  - mutable_data: []
  - tokens_to_back: []

## Querying NFTs
- Table: code="atomicassets", table="assets", scope=<owner_account> → list owned NFTs
- Table: code="atomicassets", table="collections", scope="atomicassets" → list collections
- Table: code="atomicassets", table="schemas", scope=<collection_name> → list schemas
- Table: code="atomicassets", table="templates", scope=<collection_name> → list templates`,
	},
	{
		Contract: "telos.decide",
		Chains:   []string{"telos"},
		Summary:  "Telos governance engine: treasuries, ballots, voting, committees, worker payroll",
		Guide: `# telos.decide — Telos Governance Engine Guide

## Key Concepts
- Treasury: token-based voting group with configurable settings (e.g. VOTE treasury)
- Ballot: a proposal/poll/election that treasury members vote on
- Voter: must register with a treasury before voting
- Committee: named group of seats managed by an updater account
- Worker: earns payroll by performing vote rebalances and cleanups
- Deposit: TLOS held in the contract to pay fees (transfer TLOS to telos.decide to deposit)

## Voting Methods
- 1acct1vote: one vote per account regardless of token balance
- 1tokennvote: full balance applied to every selected option
- 1token1vote: balance split equally across selected options
- 1tsquare1v: balance squared per selection, sqrt applied at close
- quadratic: balance sqrt'd, then split across selections

## Ballot Categories
- proposal, referendum, election, poll, leaderboard

## Ballot Lifecycle
- setup → voting → closed → (optionally archived); can also be cancelled at any point before close

## Deposit & Withdraw

Fees are paid from your TLOS deposit balance in the contract.

### Deposit — Transfer TLOS to telos.decide
- Use a standard eosio.token::transfer to "telos.decide" with any memo (memo "skip" bypasses deposit)
- The contract's catch_transfer handler credits your account

### withdraw — Withdraw deposited TLOS
- account: "telos.decide"
- action: "withdraw"
- data:
  - voter: (account withdrawing)
  - quantity: "10.0000 TLOS"

## Voter Actions

### regvoter — Register for a treasury
- account: "telos.decide"
- action: "regvoter"
- data:
  - voter: (account registering)
  - treasury_symbol: "4,VOTE" (precision + symbol of the treasury)
  - referrer: null (optional referrer account, required for invite-access treasuries)

### castvote — Vote on a ballot
- account: "telos.decide"
- action: "castvote"
- data:
  - voter: (registered voter account)
  - ballot_name: (name of the ballot)
  - options: ["yes"] (array of option names — usually "yes", "no", "abstain")
- NOTE: Ballot must be in "voting" status and within its time window. Revoting allowed if ballot has "revotable" setting enabled.

### unvoteall — Retract all votes on a ballot
- account: "telos.decide"
- action: "unvoteall"
- data:
  - voter: (account retracting)
  - ballot_name: (ballot name)

### stake / unstake — Stake treasury tokens
- account: "telos.decide"
- action: "stake" (or "unstake")
- data:
  - voter: (account)
  - quantity: "100.0000 VOTE"
- NOTE: Treasury must have the corresponding "stakeable"/"unstakeable" setting enabled.

### refresh — Sync external TLOS stake with VOTE balance
- account: "telos.decide"
- action: "refresh"
- data:
  - voter: (account to refresh)
- NOTE: The VOTE treasury auto-syncs with TLOS staking via delegatebw/undelegatebw notifications, but refresh can force a manual sync.

## Ballot Actions

### newballot — Create a new ballot
- account: "telos.decide"
- action: "newballot"
- data:
  - ballot_name: (unique name, up to 12 chars a-z1-5)
  - category: "proposal" (or "referendum", "election", "poll", "leaderboard")
  - publisher: (creator account)
  - treasury_symbol: "4,VOTE"
  - voting_method: "1token1vote" (or "1acct1vote", "1tokennvote", "1tsquare1v", "quadratic")
  - initial_options: ["yes", "no", "abstain"]
- NOTE: Costs a fee (default ~30 TLOS) deducted from deposit balance. Default settings: revotable=true, lightballot=false.

### editdetails — Edit ballot title/description/content
- account: "telos.decide"
- action: "editdetails"
- data:
  - ballot_name: (ballot to edit)
  - title: "My Proposal Title"
  - description: "Proposal description"
  - content: "Detailed content or IPFS hash"
- NOTE: Ballot must be in "setup" status.

### openvoting — Open ballot for voting
- account: "telos.decide"
- action: "openvoting"
- data:
  - ballot_name: (ballot to open)
  - end_time: "2026-12-31T23:59:59" (ISO 8601)
- NOTE: end_time must be >= now + minimum ballot length (default 60s). Sets begin_time to now.

### closevoting — Close voting and finalize results
- account: "telos.decide"
- action: "closevoting"
- data:
  - ballot_name: (ballot to close)
  - broadcast: true (whether to broadcast results to external contracts)

### cancelballot — Cancel a ballot
- account: "telos.decide"
- action: "cancelballot"
- data:
  - ballot_name: (ballot to cancel)
  - memo: "reason for cancellation"

## Querying Tables

All tables use code="telos.decide".

- table="treasuries", scope="telos.decide" → list all treasuries (supply, max_supply, manager, access, settings, voter count)
- table="ballots", scope="telos.decide" → list all ballots (name, category, status, options with vote tallies, times, publisher)
  - Secondary indexes:
    - index_position="2", key_type="i64" → by category
    - index_position="3", key_type="i64" → by status (e.g. lower_bound="voting", upper_bound="voting" for active ballots)
    - index_position="4", key_type="i64" → by treasury symbol code
    - index_position="5", key_type="i64" → by end_time (use reverse=true, limit=5 to get most recent ballots)
- table="voters", scope=<voter_account> → voter balances per treasury (liquid, staked, delegated)
- table="votes", scope=<ballot_name> → individual votes on a ballot (voter, raw_votes, weighted_votes, vote_time)
- table="config", scope="telos.decide" → singleton with app version, total deposits, fees, times
- table="accounts", scope=<account_name> → TLOS deposit balance for an account

## Common Queries (exact tool parameters)

IMPORTANT: The RPC does NOT support combining two secondary indexes or client-side filtering. If the data you need cannot be fetched directly using a single primary key or secondary index query, do NOT attempt to filter results yourself. Instead, tell the user: "I'm still learning how to fetch this specific data. For now, I can show you the latest ballots across all categories." Then fall back to a supported query.

### Get latest/most recent ballots (any category)
Use get_table_rows with: code="telos.decide", table="ballots", scope="telos.decide", index_position="5", key_type="i64", reverse=true, limit=5

### Get latest proposals only
This query is NOT directly supported — there is no single index that filters by category AND sorts by end_time. Tell the user: "I'm still learning how to fetch only the latest proposals. Here are the latest ballots across all categories instead." Then use the "Get latest/most recent ballots" query above.

### Get currently active ballots (status=voting)
Use get_table_rows with: code="telos.decide", table="ballots", scope="telos.decide", index_position="3", key_type="i64", lower_bound="voting", upper_bound="voting", limit=10

### Get voter registration for an account
Use get_table_rows with: code="telos.decide", table="voters", scope=<account_name>

### Get deposit balance for an account
Use get_table_rows with: code="telos.decide", table="accounts", scope=<account_name>

## Common Workflows

### Vote on an existing ballot
1. Query ballots table to find active ballots (status="voting")
2. regvoter (if not already registered for the ballot's treasury)
3. castvote with chosen options

### Create and run a ballot
1. Deposit TLOS to telos.decide (transfer to cover fees)
2. newballot → creates ballot in "setup" status
3. editdetails → set title/description
4. openvoting → ballot goes to "voting" status
5. Wait for voting period
6. closevoting → finalizes results, optionally broadcasts

## VOTE Treasury Special Behavior
The VOTE treasury is linked to TLOS staking. When users delegatebw/undelegatebw on eosio, the contract auto-syncs their VOTE balance via notification handlers. Use the "refresh" action for manual sync.`,
	},
	{
		Contract: "dgoods",
		Chains:   []string{"eos", "wax", "telos"},
		Summary:  "dGoods NFT standard: create, issue, transfer, and burn digital goods",
		Guide: `# dGoods — Digital Goods / NFT Standard

## Transfer

### transfernft — Send an NFT
- account: (dgoods contract account)
- action: "transfernft"
- data:
  - from: (sender)
  - to: (receiver)
  - dgood_ids: [1, 2, 3] (array of dGood IDs — numbers, not strings)
  - memo: ""

## Create Token Category

### create — Define a new token category
- account: (dgoods contract)
- action: "create"
- data:
  - issuer: (account)
  - category: "art" (category name)
  - token_name: "mypiece" (token name within category)
  - fungible: false (true for fungible, false for NFT)
  - burnable: true
  - transferable: true
  - max_supply: "100 MYTOKEN" (for fungible) or "0 MYTOKEN" (0 = unlimited for NFTs)

## Issue / Mint

### issue — Mint NFTs or fungible tokens
- account: (dgoods contract)
- action: "issue"
- data:
  - to: (receiver)
  - category: "art"
  - token_name: "mypiece"
  - quantity: "1 MYTOKEN" (for fungible) or "1" (for NFT, mints 1 copy)
  - relative_uri: "https://..." (metadata URI)
  - memo: ""`,
	},
	{
		Contract: "res.pink",
		Chains:   []string{"wax"},
		Summary:  "WAX resource helper: powerup CPU/NET on WAX network",
		Guide: `# res.pink — WAX Resource Powerup

## noop — Free CPU/NET powerup
On WAX, the res.pink contract provides free CPU/NET for basic transactions.
- account: "res.pink"
- action: "noop"
- data: {} (no parameters needed)
- NOTE: Add this as the FIRST action in your transaction. It pays for CPU/NET for the remaining actions. Many WAX transactions include this action.

## boost — Boost resources for heavy transactions
- account: "boost.wax"
- action: "noop"
- data: {}
- NOTE: Alternative/additional free resource provider on WAX.`,
	},
}
