package common

const rocketStorageABI = `[
  {
    "constant": true,
    "inputs": [{"name": "_key", "type": "bytes32"}],
    "name": "getAddress",
    "outputs": [{"name": "", "type": "address"}],
    "payable": false,
    "stateMutability": "view",
    "type": "function"
  },
  {
    "constant": true,
    "inputs": [{"name": "_key", "type": "bytes32"}],
    "name": "getString",
    "outputs": [{"name": "", "type": "string"}],
    "payable": false,
    "stateMutability": "view",
    "type": "function"
  },
  {
    "constant": true,
    "inputs": [{"name": "_key", "type": "bytes32"}],
    "name": "getBool",
    "outputs": [{"name": "", "type": "bool"}],
    "payable": false,
    "stateMutability": "view",
    "type": "function"
  }
]`

const multicallABI = `[
  {
    "constant": false,
    "inputs": [
      {
        "components": [
          {"name": "target", "type": "address"},
          {"name": "callData", "type": "bytes"}
        ],
        "name": "calls",
        "type": "tuple[]"
      }
    ],
    "name": "aggregate",
    "outputs": [
      {"name": "blockNumber", "type": "uint256"},
      {"name": "returnData", "type": "bytes[]"}
    ],
    "payable": false,
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

const depositContractABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "name": "pubkey", "type": "bytes"},
      {"indexed": false, "name": "withdrawal_credentials", "type": "bytes"},
      {"indexed": false, "name": "amount", "type": "bytes"},
      {"indexed": false, "name": "signature", "type": "bytes"},
      {"indexed": false, "name": "index", "type": "bytes"}
    ],
    "name": "DepositEvent",
    "type": "event"
  },
  {
    "constant": true,
    "inputs": [],
    "name": "get_deposit_root",
    "outputs": [{"name": "", "type": "bytes32"}],
    "payable": false,
    "stateMutability": "view",
    "type": "function"
  },
  {
    "constant": true,
    "inputs": [],
    "name": "get_deposit_count",
    "outputs": [{"name": "", "type": "bytes"}],
    "payable": false,
    "stateMutability": "view",
    "type": "function"
  }
]`
