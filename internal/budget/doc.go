/*
Budget checks order affordability before orders reach an exchange.

# Module
  - intent: immutable order request from strategy
  - priced_order: collateral, fee and returns breakdown of an intent
  - scale: downward proportional resizing against available balances
  - checker: batch adjustment with per-tick collateral locking

# Source
  - trade intents from strategy
  - fee schedule from fees
  - prices from oracle
  - balances from account snapshot

# Produce
  - adjusted priced orders for order submission
  - adjustment records for recorder
*/
package budget
