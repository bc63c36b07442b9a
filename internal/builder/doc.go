/*
Package builder turns a format-agnostic config.Model into a validated
network.Network over string values.

Construction is a multi-phase process:

 1. Domain: the model's value domain becomes the network domain. Every
    value in priors, table keys and evidence must belong to it.

 2. Node Creation: every node definition is added with its role and, for
    roots, its prior. Nodes receive IDs in definition order.

 3. Dependency Linking: every dependency declares the ordered parents of a
    child together with its table. The network rejects links that would
    break the polytree shape.

 4. Validation: the finished network must give every non-root node a
    table, so that inference can run on it.

Errors from the network package are wrapped with the name of the file the
offending definition came from.
*/
package builder
