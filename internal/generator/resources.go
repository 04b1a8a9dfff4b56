package generator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
)

type ec2Config struct {
	Name                     string            `mapstructure:"name"`
	AMI                      string            `mapstructure:"ami"`
	InstanceType             string            `mapstructure:"instance_type"`
	AssociatePublicIPAddress bool              `mapstructure:"associate_public_ip_address"`
	SubnetID                 string            `mapstructure:"subnet_id"`
	SecurityGroupIDs         []string          `mapstructure:"vpc_security_group_ids"`
	KeyName                  string            `mapstructure:"key_name"`
	RootVolumeSize           int               `mapstructure:"root_volume_size"`
	RootVolumeType           string            `mapstructure:"root_volume_type"`
	Tags                     map[string]string `mapstructure:"tags"`
}

func newEC2Config() *ec2Config {
	return &ec2Config{
		AMI:                      "ami-0c55b159cbfafe1f0",
		InstanceType:             "t2.micro",
		AssociatePublicIPAddress: true,
		RootVolumeSize:           8,
		RootVolumeType:           "gp2",
	}
}

func (c *ec2Config) emit(f *fragment, name string) {
	body := f.resource(KindEC2.TerraformType(), name)
	setString(body, "ami", c.AMI)
	setString(body, "instance_type", c.InstanceType)
	setBool(body, "associate_public_ip_address", c.AssociatePublicIPAddress)
	setOptionalString(body, "subnet_id", c.SubnetID)
	setOptionalString(body, "key_name", c.KeyName)
	setStringList(body, "vpc_security_group_ids", c.SecurityGroupIDs)

	body.AppendNewline()
	root := body.AppendNewBlock("root_block_device", nil).Body()
	setInt(root, "volume_size", c.RootVolumeSize)
	setString(root, "volume_type", c.RootVolumeType)

	setTags(body, c.Tags, c.Name)
}

func (c *ec2Config) variables(string, string) []variable { return nil }

type s3Config struct {
	Name                    string            `mapstructure:"name"`
	Bucket                  string            `mapstructure:"bucket"`
	ACL                     string            `mapstructure:"acl"`
	ForceDestroy            bool              `mapstructure:"force_destroy"`
	Versioning              bool              `mapstructure:"versioning"`
	Encryption              bool              `mapstructure:"encryption"`
	KMSKeyID                string            `mapstructure:"kms_key_id"`
	LifecycleRules          bool              `mapstructure:"lifecycle_rules"`
	LifecycleTransitionDays int               `mapstructure:"lifecycle_transition_days"`
	LifecycleStorageClass   string            `mapstructure:"lifecycle_storage_class"`
	Tags                    map[string]string `mapstructure:"tags"`
}

func newS3Config() *s3Config {
	return &s3Config{
		ACL:                     "private",
		Encryption:              true,
		LifecycleTransitionDays: 30,
		LifecycleStorageClass:   "STANDARD_IA",
	}
}

func (c *s3Config) emit(f *fragment, name string) {
	bucket := c.Bucket
	if bucket == "" {
		bucket = dashed(name)
	}
	bucketID := ref(KindS3.TerraformType(), name, "id")

	body := f.resource(KindS3.TerraformType(), name)
	setString(body, "bucket", bucket)
	if c.ForceDestroy {
		setBool(body, "force_destroy", true)
	}
	setTags(body, c.Tags, c.Name)

	if c.ACL != "" && c.ACL != "private" {
		acl := f.resource("aws_s3_bucket_acl", name)
		acl.SetAttributeTraversal("bucket", bucketID)
		setString(acl, "acl", c.ACL)
	}

	if c.Versioning {
		versioning := f.resource("aws_s3_bucket_versioning", name)
		versioning.SetAttributeTraversal("bucket", bucketID)
		versioning.AppendNewline()
		setString(versioning.AppendNewBlock("versioning_configuration", nil).Body(), "status", "Enabled")
	}

	if c.Encryption {
		sse := f.resource("aws_s3_bucket_server_side_encryption_configuration", name)
		sse.SetAttributeTraversal("bucket", bucketID)
		sse.AppendNewline()
		rule := sse.AppendNewBlock("rule", nil).Body()
		def := rule.AppendNewBlock("apply_server_side_encryption_by_default", nil).Body()
		if c.KMSKeyID != "" {
			setString(def, "sse_algorithm", "aws:kms")
			setString(def, "kms_master_key_id", c.KMSKeyID)
		} else {
			setString(def, "sse_algorithm", "AES256")
		}
	}

	if c.LifecycleRules {
		lifecycle := f.resource("aws_s3_bucket_lifecycle_configuration", name)
		lifecycle.SetAttributeTraversal("bucket", bucketID)
		lifecycle.AppendNewline()
		rule := lifecycle.AppendNewBlock("rule", nil).Body()
		setString(rule, "id", "transition-to-"+strings.ToLower(dashed(c.LifecycleStorageClass)))
		setString(rule, "status", "Enabled")
		rule.AppendNewline()
		rule.AppendNewBlock("filter", nil)
		rule.AppendNewline()
		transition := rule.AppendNewBlock("transition", nil).Body()
		setInt(transition, "days", c.LifecycleTransitionDays)
		setString(transition, "storage_class", c.LifecycleStorageClass)
	}
}

func (c *s3Config) variables(string, string) []variable { return nil }

type rdsConfig struct {
	Identifier          string            `mapstructure:"identifier"`
	Engine              string            `mapstructure:"engine"`
	EngineVersion       string            `mapstructure:"engine_version"`
	InstanceClass       string            `mapstructure:"instance_class"`
	AllocatedStorage    int               `mapstructure:"allocated_storage"`
	StorageType         string            `mapstructure:"storage_type"`
	DBName              string            `mapstructure:"name"`
	Username            string            `mapstructure:"username"`
	Password            string            `mapstructure:"password"`
	MultiAZ             bool              `mapstructure:"multi_az"`
	PubliclyAccessible  bool              `mapstructure:"publicly_accessible"`
	SkipFinalSnapshot   bool              `mapstructure:"skip_final_snapshot"`
	DBSubnetGroupName   string            `mapstructure:"db_subnet_group_name"`
	VPCSecurityGroupIDs []string          `mapstructure:"vpc_security_group_ids"`
	Tags                map[string]string `mapstructure:"tags"`
}

func newRDSConfig() *rdsConfig {
	return &rdsConfig{
		Engine:            "mysql",
		EngineVersion:     "5.7",
		InstanceClass:     "db.t3.micro",
		AllocatedStorage:  20,
		StorageType:       "gp2",
		Username:          "admin",
		SkipFinalSnapshot: true,
	}
}

// emit never writes the configured password; it always references a
// sensitive variable.
func (c *rdsConfig) emit(f *fragment, name string) {
	identifier := c.Identifier
	if identifier == "" {
		identifier = dashed(name)
	}

	body := f.resource(KindRDS.TerraformType(), name)
	setString(body, "identifier", identifier)
	setString(body, "engine", c.Engine)
	setString(body, "engine_version", c.EngineVersion)
	setString(body, "instance_class", c.InstanceClass)
	setInt(body, "allocated_storage", c.AllocatedStorage)
	setString(body, "storage_type", c.StorageType)
	setOptionalString(body, "db_name", c.DBName)
	setString(body, "username", c.Username)
	body.SetAttributeTraversal("password", ref("var", name+"_password"))
	setBool(body, "multi_az", c.MultiAZ)
	setBool(body, "publicly_accessible", c.PubliclyAccessible)
	setBool(body, "skip_final_snapshot", c.SkipFinalSnapshot)
	setOptionalString(body, "db_subnet_group_name", c.DBSubnetGroupName)
	setStringList(body, "vpc_security_group_ids", c.VPCSecurityGroupIDs)
	setTags(body, c.Tags, "")
}

func (c *rdsConfig) variables(name, title string) []variable {
	return []variable{{
		name:        name + "_password",
		description: fmt.Sprintf("Password for %s database", title),
		sensitive:   true,
	}}
}

type lambdaConfig struct {
	FunctionName string            `mapstructure:"function_name"`
	Runtime      string            `mapstructure:"runtime"`
	Handler      string            `mapstructure:"handler"`
	MemorySize   int               `mapstructure:"memory_size"`
	Timeout      int               `mapstructure:"timeout"`
	Filename     string            `mapstructure:"filename"`
	Role         string            `mapstructure:"role"`
	Environment  map[string]string `mapstructure:"environment_variables"`
	Tags         map[string]string `mapstructure:"tags"`
}

func newLambdaConfig() *lambdaConfig {
	return &lambdaConfig{
		Runtime:    "nodejs20.x",
		Handler:    "index.handler",
		MemorySize: 128,
		Timeout:    3,
	}
}

func (c *lambdaConfig) emit(f *fragment, name string) {
	functionName := c.FunctionName
	if functionName == "" {
		functionName = name
	}
	filename := c.Filename
	if filename == "" {
		filename = name + ".zip"
	}

	body := f.resource(KindLambda.TerraformType(), name)
	setString(body, "function_name", functionName)
	if c.Role != "" {
		setString(body, "role", c.Role)
	} else {
		body.SetAttributeTraversal("role", ref("var", name+"_role_arn"))
	}
	setString(body, "runtime", c.Runtime)
	setString(body, "handler", c.Handler)
	setString(body, "filename", filename)
	setInt(body, "memory_size", c.MemorySize)
	setInt(body, "timeout", c.Timeout)

	if len(c.Environment) > 0 {
		body.AppendNewline()
		setStringMap(body.AppendNewBlock("environment", nil).Body(), "variables", c.Environment)
	}

	setTags(body, c.Tags, "")
}

func (c *lambdaConfig) variables(name, title string) []variable {
	if c.Role != "" {
		return nil
	}
	return []variable{{
		name:        name + "_role_arn",
		description: fmt.Sprintf("Execution role ARN for %s", title),
	}}
}

type dynamoDBConfig struct {
	Name          string            `mapstructure:"name"`
	BillingMode   string            `mapstructure:"billing_mode"`
	ReadCapacity  int               `mapstructure:"read_capacity"`
	WriteCapacity int               `mapstructure:"write_capacity"`
	HashKey       string            `mapstructure:"hash_key"`
	HashKeyType   string            `mapstructure:"hash_key_type"`
	RangeKey      string            `mapstructure:"range_key"`
	RangeKeyType  string            `mapstructure:"range_key_type"`
	Tags          map[string]string `mapstructure:"tags"`
}

func newDynamoDBConfig() *dynamoDBConfig {
	return &dynamoDBConfig{
		BillingMode:   "PAY_PER_REQUEST",
		ReadCapacity:  5,
		WriteCapacity: 5,
		HashKey:       "id",
		HashKeyType:   "S",
		RangeKeyType:  "S",
	}
}

func (c *dynamoDBConfig) emit(f *fragment, name string) {
	table := c.Name
	if table == "" {
		table = name
	}

	body := f.resource(KindDynamoDB.TerraformType(), name)
	setString(body, "name", table)
	setString(body, "billing_mode", c.BillingMode)
	if c.BillingMode == "PROVISIONED" {
		setInt(body, "read_capacity", c.ReadCapacity)
		setInt(body, "write_capacity", c.WriteCapacity)
	}
	setString(body, "hash_key", c.HashKey)
	setOptionalString(body, "range_key", c.RangeKey)

	body.AppendNewline()
	hash := body.AppendNewBlock("attribute", nil).Body()
	setString(hash, "name", c.HashKey)
	setString(hash, "type", c.HashKeyType)
	if c.RangeKey != "" {
		body.AppendNewline()
		rng := body.AppendNewBlock("attribute", nil).Body()
		setString(rng, "name", c.RangeKey)
		setString(rng, "type", c.RangeKeyType)
	}

	setTags(body, c.Tags, "")
}

func (c *dynamoDBConfig) variables(string, string) []variable { return nil }

type ebsConfig struct {
	Name             string            `mapstructure:"name"`
	AvailabilityZone string            `mapstructure:"availability_zone"`
	Size             int               `mapstructure:"size"`
	VolumeType       string            `mapstructure:"volume_type"`
	Encrypted        bool              `mapstructure:"encrypted"`
	Tags             map[string]string `mapstructure:"tags"`
}

func newEBSConfig() *ebsConfig {
	return &ebsConfig{
		Size:       8,
		VolumeType: "gp2",
	}
}

// emit places the volume in the first zone of the provider region unless a
// zone is configured.
func (c *ebsConfig) emit(f *fragment, name string) {
	body := f.resource(KindEBS.TerraformType(), name)
	if c.AvailabilityZone != "" {
		setString(body, "availability_zone", c.AvailabilityZone)
	} else {
		body.SetAttributeRaw("availability_zone", interpolate("", ref("var", "aws_region"), "a"))
	}
	setInt(body, "size", c.Size)
	setString(body, "type", c.VolumeType)
	setBool(body, "encrypted", c.Encrypted)
	setTags(body, c.Tags, c.Name)
}

func (c *ebsConfig) variables(string, string) []variable { return nil }

type ecsConfig struct {
	Name              string            `mapstructure:"name"`
	CapacityProviders []string          `mapstructure:"capacity_providers"`
	ContainerInsights bool              `mapstructure:"container_insights"`
	Tags              map[string]string `mapstructure:"tags"`
}

func newECSConfig() *ecsConfig {
	return &ecsConfig{
		CapacityProviders: []string{"FARGATE"},
	}
}

func (c *ecsConfig) emit(f *fragment, name string) {
	cluster := c.Name
	if cluster == "" {
		cluster = name
	}
	insights := "disabled"
	if c.ContainerInsights {
		insights = "enabled"
	}

	body := f.resource(KindECS.TerraformType(), name)
	setString(body, "name", cluster)
	body.AppendNewline()
	setting := body.AppendNewBlock("setting", nil).Body()
	setString(setting, "name", "containerInsights")
	setString(setting, "value", insights)
	setTags(body, c.Tags, "")

	if len(c.CapacityProviders) > 0 {
		providers := f.resource("aws_ecs_cluster_capacity_providers", name)
		providers.SetAttributeTraversal("cluster_name", ref(KindECS.TerraformType(), name, "name"))
		setStringList(providers, "capacity_providers", c.CapacityProviders)
	}
}

func (c *ecsConfig) variables(string, string) []variable { return nil }

type subnetConfig struct {
	Name                string            `mapstructure:"name"`
	VPCID               string            `mapstructure:"vpc_id"`
	CIDRBlock           string            `mapstructure:"cidr_block"`
	AvailabilityZone    string            `mapstructure:"availability_zone"`
	MapPublicIPOnLaunch bool              `mapstructure:"map_public_ip_on_launch"`
	Tags                map[string]string `mapstructure:"tags"`
}

func newSubnetConfig() *subnetConfig {
	return &subnetConfig{
		CIDRBlock: "10.0.1.0/24",
	}
}

func (c *subnetConfig) emit(f *fragment, name string) {
	body := f.resource(KindSubnet.TerraformType(), name)
	if c.VPCID != "" {
		setString(body, "vpc_id", c.VPCID)
	} else {
		body.SetAttributeTraversal("vpc_id", ref("var", name+"_vpc_id"))
	}
	setString(body, "cidr_block", c.CIDRBlock)
	setOptionalString(body, "availability_zone", c.AvailabilityZone)
	setBool(body, "map_public_ip_on_launch", c.MapPublicIPOnLaunch)
	setTags(body, c.Tags, c.Name)
}

func (c *subnetConfig) variables(name, title string) []variable {
	if c.VPCID != "" {
		return nil
	}
	return []variable{{
		name:        name + "_vpc_id",
		description: fmt.Sprintf("VPC ID for %s", title),
	}}
}

type securityGroupRule struct {
	FromPort    int      `mapstructure:"from_port"`
	ToPort      int      `mapstructure:"to_port"`
	Protocol    string   `mapstructure:"protocol"`
	CIDRBlocks  []string `mapstructure:"cidr_blocks"`
	Description string   `mapstructure:"description"`
}

type securityGroupConfig struct {
	Name        string              `mapstructure:"name"`
	Description string              `mapstructure:"description"`
	VPCID       string              `mapstructure:"vpc_id"`
	Ingress     []securityGroupRule `mapstructure:"ingress_rules"`
	Egress      []securityGroupRule `mapstructure:"egress_rules"`
	Tags        map[string]string   `mapstructure:"tags"`
}

func newSecurityGroupConfig() *securityGroupConfig {
	return &securityGroupConfig{
		Description: "Managed by Terraform",
	}
}

var allowAllEgress = securityGroupRule{
	FromPort:   0,
	ToPort:     0,
	Protocol:   "-1",
	CIDRBlocks: []string{"0.0.0.0/0"},
}

func (c *securityGroupConfig) emit(f *fragment, name string) {
	group := c.Name
	if group == "" {
		group = name
	}

	body := f.resource(KindSecurityGroup.TerraformType(), name)
	setString(body, "name", group)
	setString(body, "description", c.Description)
	setOptionalString(body, "vpc_id", c.VPCID)

	for _, rule := range c.Ingress {
		appendRule(body, "ingress", rule)
	}
	egress := c.Egress
	if len(egress) == 0 {
		egress = []securityGroupRule{allowAllEgress}
	}
	for _, rule := range egress {
		appendRule(body, "egress", rule)
	}

	setTags(body, c.Tags, "")
}

func appendRule(body *hclwrite.Body, blockType string, rule securityGroupRule) {
	protocol := rule.Protocol
	if protocol == "" {
		protocol = "tcp"
	}
	cidrs := rule.CIDRBlocks
	if len(cidrs) == 0 {
		cidrs = []string{"0.0.0.0/0"}
	}

	body.AppendNewline()
	rb := body.AppendNewBlock(blockType, nil).Body()
	setOptionalString(rb, "description", rule.Description)
	setInt(rb, "from_port", rule.FromPort)
	setInt(rb, "to_port", rule.ToPort)
	setString(rb, "protocol", protocol)
	setStringList(rb, "cidr_blocks", cidrs)
}

func (c *securityGroupConfig) variables(string, string) []variable { return nil }

type cdnConfig struct {
	Name                 string            `mapstructure:"name"`
	OriginDomainName     string            `mapstructure:"origin_domain_name"`
	OriginID             string            `mapstructure:"origin_id"`
	Enabled              bool              `mapstructure:"enabled"`
	DefaultRootObject    string            `mapstructure:"default_root_object"`
	PriceClass           string            `mapstructure:"price_class"`
	ViewerProtocolPolicy string            `mapstructure:"viewer_protocol_policy"`
	Tags                 map[string]string `mapstructure:"tags"`
}

func newCDNConfig() *cdnConfig {
	return &cdnConfig{
		Enabled:              true,
		PriceClass:           "PriceClass_100",
		ViewerProtocolPolicy: "redirect-to-https",
	}
}

func (c *cdnConfig) emit(f *fragment, name string) {
	originID := c.OriginID
	if originID == "" {
		originID = name + "-origin"
	}
	methods := []string{"GET", "HEAD"}

	body := f.resource(KindCDN.TerraformType(), name)
	setBool(body, "enabled", c.Enabled)
	setString(body, "price_class", c.PriceClass)
	setOptionalString(body, "default_root_object", c.DefaultRootObject)

	body.AppendNewline()
	origin := body.AppendNewBlock("origin", nil).Body()
	if c.OriginDomainName != "" {
		setString(origin, "domain_name", c.OriginDomainName)
	} else {
		origin.SetAttributeTraversal("domain_name", ref("var", name+"_origin_domain_name"))
	}
	setString(origin, "origin_id", originID)
	origin.AppendNewline()
	custom := origin.AppendNewBlock("custom_origin_config", nil).Body()
	setInt(custom, "http_port", 80)
	setInt(custom, "https_port", 443)
	setString(custom, "origin_protocol_policy", "https-only")
	setStringList(custom, "origin_ssl_protocols", []string{"TLSv1.2"})

	body.AppendNewline()
	behavior := body.AppendNewBlock("default_cache_behavior", nil).Body()
	setStringList(behavior, "allowed_methods", methods)
	setStringList(behavior, "cached_methods", methods)
	setString(behavior, "target_origin_id", originID)
	setString(behavior, "viewer_protocol_policy", c.ViewerProtocolPolicy)
	behavior.AppendNewline()
	forwarded := behavior.AppendNewBlock("forwarded_values", nil).Body()
	setBool(forwarded, "query_string", false)
	forwarded.AppendNewline()
	setString(forwarded.AppendNewBlock("cookies", nil).Body(), "forward", "none")

	body.AppendNewline()
	restrictions := body.AppendNewBlock("restrictions", nil).Body()
	setString(restrictions.AppendNewBlock("geo_restriction", nil).Body(), "restriction_type", "none")

	body.AppendNewline()
	setBool(body.AppendNewBlock("viewer_certificate", nil).Body(), "cloudfront_default_certificate", true)

	setTags(body, c.Tags, c.Name)
}

func (c *cdnConfig) variables(name, title string) []variable {
	if c.OriginDomainName != "" {
		return nil
	}
	return []variable{{
		name:        name + "_origin_domain_name",
		description: fmt.Sprintf("Origin domain name for %s", title),
	}}
}

type cloudWatchLogsConfig struct {
	Name            string            `mapstructure:"name"`
	RetentionInDays int               `mapstructure:"retention_in_days"`
	KMSKeyID        string            `mapstructure:"kms_key_id"`
	Tags            map[string]string `mapstructure:"tags"`
}

func newCloudWatchLogsConfig() *cloudWatchLogsConfig {
	return &cloudWatchLogsConfig{
		RetentionInDays: 30,
	}
}

func (c *cloudWatchLogsConfig) emit(f *fragment, name string) {
	group := c.Name
	if group == "" {
		group = name
	}

	body := f.resource(KindCloudWatchLogs.TerraformType(), name)
	setString(body, "name", group)
	setInt(body, "retention_in_days", c.RetentionInDays)
	setOptionalString(body, "kms_key_id", c.KMSKeyID)
	setTags(body, c.Tags, "")
}

func (c *cloudWatchLogsConfig) variables(string, string) []variable { return nil }
